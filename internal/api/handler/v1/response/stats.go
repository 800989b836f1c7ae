package response

import (
	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/stats"
)

// UserStatsFilters echoes the filters of a per-user report as they were received.
type UserStatsFilters struct {
	Source    *string `json:"source"`
	Item      *string `json:"item"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type UserStatsReport struct {
	User    string               `json:"user"`
	GameID  uint                 `json:"game_id"`
	Filters UserStatsFilters     `json:"filters"`
	Summary domain.Summary       `json:"summary"`
	Drops   []domain.RewardStats `json:"drops"`
	ByType  []domain.TypeCount   `json:"by_type"`
	ByDay   []domain.DayAverage  `json:"by_day"`
}

type FarmStatsFilters struct {
	Type      *string    `json:"type"`
	SourceID  *string    `json:"sourceID"`
	ItemID    *string    `json:"itemID"`
	DateRange [2]*string `json:"date_range"`
}

type FarmStatsReport struct {
	GameID  uint                 `json:"game_id"`
	Filters FarmStatsFilters     `json:"filters"`
	Summary domain.Summary       `json:"summary"`
	Drops   []domain.RewardStats `json:"drops"`
}

type DropRateReport struct {
	GameID         uint                `json:"game_id"`
	SourceID       uint                `json:"source_id"`
	ItemID         *uint               `json:"item_id"`
	TotalEvents    int                 `json:"total_events"`
	EventsWithItem int                 `json:"events_with_item"`
	DropRate       float64             `json:"drop_rate"`
	ByRarity       []domain.RarityRate `json:"drop_rate_by_rarity"`
	Message        string              `json:"message,omitempty"`
}

func NewUserStatsReport(username string, gameID uint, filters UserStatsFilters, r domain.StatsReport) UserStatsReport {
	return UserStatsReport{
		User:    username,
		GameID:  gameID,
		Filters: filters,
		Summary: r.Summary,
		Drops:   nonNil(r.Drops),
		ByType:  nonNil(r.ByType),
		ByDay:   nonNil(r.ByDay),
	}
}

func NewFarmStatsReport(gameID uint, filters FarmStatsFilters, r domain.StatsReport) FarmStatsReport {
	return FarmStatsReport{
		GameID:  gameID,
		Filters: filters,
		Summary: r.Summary,
		Drops:   nonNil(r.Drops),
	}
}

func NewDropRateReport(gameID, sourceID uint, itemID *uint, r domain.DropRate) DropRateReport {
	report := DropRateReport{
		GameID:         gameID,
		SourceID:       sourceID,
		ItemID:         itemID,
		TotalEvents:    r.TotalEvents,
		EventsWithItem: r.EventsWithItem,
		DropRate:       r.Rate,
		ByRarity:       nonNil(r.ByRarity),
	}
	if r.TotalEvents == 0 {
		report.Message = stats.NoEventsMessage
	}

	return report
}

// Optional turns an absent query value into a JSON null.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
