package stats

import (
	"sort"

	"github.com/farmlog/farmlog-api/internal/domain"
)

// NoEventsMessage accompanies a zero drop rate computed over an empty event set.
const NoEventsMessage = "no farm events recorded for this source"

// DistinctEvents counts the events that produced at least one of the given drops.
func DistinctEvents(drops []domain.DropRecord) int {
	seen := make(map[uint]struct{}, len(drops))
	for _, d := range drops {
		seen[d.EventID] = struct{}{}
	}
	return len(seen)
}

// Ratio divides part by total rounded to three decimals, returning 0 for an empty total.
func Ratio(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total), 3)
}

// RatesByRarity returns, per rarity present in drops, the share of totalEvents
// that produced at least one drop of that rarity. Ordered by rarity rank.
func RatesByRarity(totalEvents int, drops []domain.DropRecord) []domain.RarityRate {
	events := make(map[domain.Rarity]map[uint]struct{})
	for _, d := range drops {
		if events[d.Rarity] == nil {
			events[d.Rarity] = make(map[uint]struct{})
		}
		events[d.Rarity][d.EventID] = struct{}{}
	}

	out := make([]domain.RarityRate, 0, len(events))
	for r, ids := range events {
		out = append(out, domain.RarityRate{
			Rarity:     r,
			EventCount: len(ids),
			DropRate:   Ratio(len(ids), totalEvents),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rarity.Rank() != out[j].Rarity.Rank() {
			return out[i].Rarity.Rank() < out[j].Rarity.Rank()
		}
		return out[i].Rarity < out[j].Rarity
	})

	return out
}

// ComputeDropRate derives the empirical drop rate of the matching drops over totalEvents.
func ComputeDropRate(totalEvents int, drops []domain.DropRecord) domain.DropRate {
	if totalEvents == 0 {
		return domain.DropRate{ByRarity: []domain.RarityRate{}}
	}

	withItem := DistinctEvents(drops)
	return domain.DropRate{
		TotalEvents:    totalEvents,
		EventsWithItem: withItem,
		Rate:           Ratio(withItem, totalEvents),
		ByRarity:       RatesByRarity(totalEvents, drops),
	}
}
