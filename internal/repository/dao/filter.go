package dao

import (
	"gorm.io/gorm"

	"github.com/farmlog/farmlog-api/internal/domain"
)

const dateLayout = "2006-01-02"

// typeScope matches column case-insensitively against the normalized type.
// DOMAIN is special: it selects every DOMAIN_* sub-variant as well.
func typeScope(column, raw string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		t := domain.NormalizeSourceType(raw)
		if t == domain.SourceTypeDomain {
			return db.Where("UPPER("+column+") LIKE ?", string(domain.SourceTypeDomain)+"%")
		}
		return db.Where("UPPER("+column+") = ?", string(t))
	}
}

// eventScope restricts a query joined on farm_events and farm_sources to the events matching f.
func eventScope(f domain.StatsFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("farm_events.game_id = ?", f.GameID)

		if f.UserID != nil {
			db = db.Where("farm_events.user_id = ?", *f.UserID)
		}
		if f.SourceID != 0 {
			db = db.Where("farm_events.source_id = ?", f.SourceID)
		}
		if f.SourceName != "" {
			db = db.Where("LOWER(farm_sources.name) = LOWER(?)", f.SourceName)
		}
		if f.Type != "" {
			db = db.Scopes(typeScope("farm_events.farm_type", f.Type))
		}
		if f.StartDate != nil {
			db = db.Where("farm_events.date >= ?", f.StartDate.Format(dateLayout))
		}
		if f.EndDate != nil {
			db = db.Where("farm_events.date <= ?", f.EndDate.Format(dateLayout))
		}

		return db
	}
}

// itemScope narrows a drop query joined on farm_rewards to the requested item.
func itemScope(f domain.StatsFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ItemID != 0 {
			db = db.Where("farm_drops.reward_id = ?", f.ItemID)
		}
		if f.ItemName != "" {
			db = db.Where("LOWER(farm_rewards.name) = LOWER(?)", f.ItemName)
		}

		return db
	}
}
