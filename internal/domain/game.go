package domain

import (
	"strings"
	"time"
)

type SourceType string

const (
	SourceTypeBoss       SourceType = "BOSS"
	SourceTypeWeeklyBoss SourceType = "WEEKLY_BOSS"
	SourceTypeDomain     SourceType = "DOMAIN"
)

// NormalizeSourceType upper-cases the input and turns inner spaces into underscores,
// so "weekly boss" and "WEEKLY_BOSS" compare equal.
func NormalizeSourceType(raw string) SourceType {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return SourceType(strings.Join(strings.Fields(s), "_"))
}

func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeBoss, SourceTypeWeeklyBoss, SourceTypeDomain:
		return true
	}
	return strings.HasPrefix(string(t), string(SourceTypeDomain)+"_") && len(t) > len(SourceTypeDomain)+1
}

type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
}

func NormalizeRarity(raw string) Rarity {
	return Rarity(strings.ToUpper(strings.TrimSpace(raw)))
}

func (r Rarity) Valid() bool {
	_, ok := rarityRank[r]
	return ok
}

// Rank orders rarities from COMMON to LEGENDARY. Unknown values sort last.
func (r Rarity) Rank() int {
	if rank, ok := rarityRank[r]; ok {
		return rank
	}
	return len(rarityRank)
}

type Game struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type FarmSource struct {
	ID         uint         `json:"id"`
	Name       string       `json:"name"`
	Location   string       `json:"location"`
	SourceType SourceType   `json:"source_type"`
	GameID     uint         `json:"game_id"`
	Rewards    []FarmReward `json:"rewards"`
}

type FarmReward struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	SourceID uint   `json:"source_id"`
}

type FarmEvent struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	FarmType   SourceType `json:"farm_type"`
	SourceID   uint       `json:"source"`
	SourceName string     `json:"source_name,omitempty"`
	GameID     uint       `json:"game_id"`
	Date       time.Time  `json:"date"`
	Drops      []FarmDrop `json:"drops"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TotalDrops sums the quantity of every drop attached to the event.
func (e FarmEvent) TotalDrops() int {
	total := 0
	for _, d := range e.Drops {
		total += d.Quantity
	}
	return total
}

type FarmDrop struct {
	ID         uint   `json:"id"`
	EventID    uint   `json:"event_id"`
	RewardID   uint   `json:"reward"`
	RewardName string `json:"reward_name"`
	Rarity     Rarity `json:"rarity"`
	Quantity   int    `json:"quantity"`
}

// NewDrop is a drop as submitted on event creation, before its reward is resolved.
type NewDrop struct {
	RewardName string
	Rarity     Rarity
	Quantity   int
}
