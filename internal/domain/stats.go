package domain

import "time"

// StatsFilter is the parsed form of the optional query parameters accepted by the
// statistics endpoints. Zero values mean "not filtered".
type StatsFilter struct {
	GameID     uint
	UserID     *uint
	SourceID   uint
	SourceName string
	ItemID     uint
	ItemName   string
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
}

// HistoryFilter narrows the cross-user history lookup.
type HistoryFilter struct {
	GameID   uint
	UserID   uint
	SourceID uint
	Type     string
}

// EventRecord is the flattened view of one event as seen by the aggregation code.
type EventRecord struct {
	ID         uint
	Date       time.Time
	FarmType   SourceType
	SourceID   uint
	SourceName string
}

// DropRecord is one drop row joined with its reward and the date of its event.
type DropRecord struct {
	EventID    uint
	EventDate  time.Time
	RewardID   uint
	RewardName string
	Rarity     Rarity
	Quantity   int
}

// StatsSet is a consistent snapshot of filtered events and drops.
// Drops honours the item filter; EventDrops holds every drop of the matched events.
type StatsSet struct {
	Events     []EventRecord
	Drops      []DropRecord
	EventDrops []DropRecord
}

type Summary struct {
	TotalEvents int     `json:"total_events"`
	TotalDrops  int     `json:"total_drops"`
	AvgDrops    float64 `json:"avg_drops"`
}

type RewardStats struct {
	RewardName     string   `json:"reward_name"`
	Rarity         Rarity   `json:"rarity"`
	TotalQuantity  int      `json:"total_quantity"`
	AvgQuantity    float64  `json:"avg_quantity"`
	MinQuantity    int      `json:"min_quantity"`
	MaxQuantity    int      `json:"max_quantity"`
	DropCount      int      `json:"drop_count"`
	StdDevQuantity *float64 `json:"stddev_quantity,omitempty"`
	MedianQuantity *float64 `json:"median_quantity,omitempty"`
}

type TypeCount struct {
	SourceName string     `json:"source_name"`
	FarmType   SourceType `json:"farm_type"`
	Count      int        `json:"count"`
}

type DayAverage struct {
	Date     string   `json:"date"`
	AvgDrops *float64 `json:"avg_drops"`
}

type RarityRate struct {
	Rarity     Rarity  `json:"rarity"`
	EventCount int     `json:"event_count"`
	DropRate   float64 `json:"drop_rate"`
}

type DropRate struct {
	TotalEvents    int          `json:"total_events"`
	EventsWithItem int          `json:"events_with_item"`
	Rate           float64      `json:"drop_rate"`
	ByRarity       []RarityRate `json:"drop_rate_by_rarity"`
}

// StatsReport is the computed output of a per-user or per-game aggregation.
// ByType and ByDay are only filled for per-user reports.
type StatsReport struct {
	Summary Summary
	Drops   []RewardStats
	ByType  []TypeCount
	ByDay   []DayAverage
}
