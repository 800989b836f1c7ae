// Package stats computes grouped and scalar statistics over filtered farm
// events and drops. Every function is pure and degrades to zero values on empty input.
package stats

import (
	"math"
	"sort"

	"github.com/farmlog/farmlog-api/internal/domain"
)

const dayLayout = "2006-01-02"

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// Mean returns the arithmetic mean of xs, or 0 when xs is empty.
func Mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// Median returns the exact median of xs without modifying it.
// Even-length inputs yield the mean of the two middle values.
func Median(xs []int) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	cp := make([]int, n)
	copy(cp, xs)
	sort.Ints(cp)

	if n%2 == 1 {
		return float64(cp[n/2])
	}
	return float64(cp[n/2-1]+cp[n/2]) / 2
}

// StdDev returns the population standard deviation of xs.
// Groups with fewer than two members have no spread and yield 0.
func StdDev(xs []int) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := float64(x) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// Summarize computes the scalar summary. avg_drops is averaged over drop rows, not events.
func Summarize(events []domain.EventRecord, drops []domain.DropRecord) domain.Summary {
	quantities := make([]int, 0, len(drops))
	total := 0
	for _, d := range drops {
		quantities = append(quantities, d.Quantity)
		total += d.Quantity
	}

	return domain.Summary{
		TotalEvents: len(events),
		TotalDrops:  total,
		AvgDrops:    Round(Mean(quantities), 2),
	}
}

type rewardKey struct {
	name   string
	rarity domain.Rarity
}

// GroupByReward groups drops by (reward name, rarity). Groups are ordered by
// total quantity descending, then reward name, then rarity rank.
// withSpread adds the standard deviation and median of each group.
func GroupByReward(drops []domain.DropRecord, withSpread bool) []domain.RewardStats {
	groups := make(map[rewardKey][]int)
	var keys []rewardKey
	for _, d := range drops {
		k := rewardKey{name: d.RewardName, rarity: d.Rarity}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], d.Quantity)
	}

	out := make([]domain.RewardStats, 0, len(keys))
	for _, k := range keys {
		qs := groups[k]
		minQ, maxQ, total := qs[0], qs[0], 0
		for _, q := range qs {
			total += q
			minQ = min(minQ, q)
			maxQ = max(maxQ, q)
		}

		rs := domain.RewardStats{
			RewardName:    k.name,
			Rarity:        k.rarity,
			TotalQuantity: total,
			AvgQuantity:   Mean(qs),
			MinQuantity:   minQ,
			MaxQuantity:   maxQ,
			DropCount:     len(qs),
		}
		if withSpread {
			sd := StdDev(qs)
			med := Median(qs)
			rs.StdDevQuantity = &sd
			rs.MedianQuantity = &med
		}
		out = append(out, rs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalQuantity != b.TotalQuantity {
			return a.TotalQuantity > b.TotalQuantity
		}
		if a.RewardName != b.RewardName {
			return a.RewardName < b.RewardName
		}
		return a.Rarity.Rank() < b.Rarity.Rank()
	})

	return out
}

// GroupByType counts events per (source name, farm type), ordered by source name.
func GroupByType(events []domain.EventRecord) []domain.TypeCount {
	type key struct {
		source string
		typ    domain.SourceType
	}
	counts := make(map[key]int)
	for _, e := range events {
		counts[key{source: e.SourceName, typ: e.FarmType}]++
	}

	out := make([]domain.TypeCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, domain.TypeCount{SourceName: k.source, FarmType: k.typ, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceName != out[j].SourceName {
			return out[i].SourceName < out[j].SourceName
		}
		return out[i].FarmType < out[j].FarmType
	})

	return out
}

// GroupByDay averages drop quantities per event date. A date whose events
// produced no drops is reported with a nil average.
func GroupByDay(events []domain.EventRecord, drops []domain.DropRecord) []domain.DayAverage {
	byDay := make(map[string][]int)
	for _, e := range events {
		day := e.Date.Format(dayLayout)
		if _, ok := byDay[day]; !ok {
			byDay[day] = nil
		}
	}
	for _, d := range drops {
		day := d.EventDate.Format(dayLayout)
		byDay[day] = append(byDay[day], d.Quantity)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]domain.DayAverage, 0, len(days))
	for _, day := range days {
		da := domain.DayAverage{Date: day}
		if qs := byDay[day]; len(qs) > 0 {
			avg := Round(Mean(qs), 2)
			da.AvgDrops = &avg
		}
		out = append(out, da)
	}

	return out
}
