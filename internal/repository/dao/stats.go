package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmlog/farmlog-api/internal/domain"
)

var ErrTooManyRows = errors.New("the filters match too many records, narrow them down")

type EventRow struct {
	ID         uint
	Date       time.Time
	FarmType   string
	SourceID   uint
	SourceName string
}

type DropRow struct {
	EventID    uint
	EventDate  time.Time
	RewardID   uint
	RewardName string
	Rarity     string
	Quantity   int
}

// StatsRows is what one statistics request reads from a single snapshot.
type StatsRows struct {
	Events     []EventRow
	Drops      []DropRow
	EventDrops []DropRow
}

type StatsDAO struct {
	db      *gorm.DB
	maxRows int
}

func NewStatsDAO(db *gorm.DB, maxRows int) *StatsDAO {
	return &StatsDAO{
		db:      db,
		maxRows: maxRows,
	}
}

// Load reads the events matching f, their item-filtered drops and, when withEventDrops
// is set, every drop of those events. All reads share one repeatable-read snapshot.
func (d *StatsDAO) Load(ctx context.Context, f domain.StatsFilter, withEventDrops bool) (StatsRows, error) {
	var rows StatsRows

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.limit(d.eventQuery(tx, f)).Scan(&rows.Events).Error; err != nil {
			return fmt.Errorf("eventQuery -> %w", err)
		}
		if err := d.checkRows(len(rows.Events)); err != nil {
			return err
		}

		if err := d.limit(d.dropQuery(tx, f).Scopes(itemScope(f))).Scan(&rows.Drops).Error; err != nil {
			return fmt.Errorf("dropQuery -> %w", err)
		}
		if err := d.checkRows(len(rows.Drops)); err != nil {
			return err
		}

		if !withEventDrops {
			return nil
		}
		if err := d.limit(d.dropQuery(tx, f)).Scan(&rows.EventDrops).Error; err != nil {
			return fmt.Errorf("dropQuery(all) -> %w", err)
		}
		return d.checkRows(len(rows.EventDrops))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return StatsRows{}, err
	}

	return rows, nil
}

func (d *StatsDAO) eventQuery(tx *gorm.DB, f domain.StatsFilter) *gorm.DB {
	return tx.Table("farm_events").
		Select("farm_events.id, farm_events.date, farm_events.farm_type, farm_events.source_id, farm_sources.name AS source_name").
		Joins("JOIN farm_sources ON farm_sources.id = farm_events.source_id").
		Scopes(eventScope(f)).
		Order("farm_events.date, farm_events.id")
}

func (d *StatsDAO) dropQuery(tx *gorm.DB, f domain.StatsFilter) *gorm.DB {
	return tx.Table("farm_drops").
		Select("farm_drops.event_id, farm_events.date AS event_date, farm_drops.reward_id, " +
			"farm_rewards.name AS reward_name, farm_rewards.rarity, farm_drops.quantity").
		Joins("JOIN farm_events ON farm_events.id = farm_drops.event_id").
		Joins("JOIN farm_sources ON farm_sources.id = farm_events.source_id").
		Joins("JOIN farm_rewards ON farm_rewards.id = farm_drops.reward_id").
		Scopes(eventScope(f)).
		Order("farm_drops.id")
}

func (d *StatsDAO) limit(query *gorm.DB) *gorm.DB {
	if d.maxRows <= 0 {
		return query
	}
	return query.Limit(d.maxRows + 1)
}

func (d *StatsDAO) checkRows(n int) error {
	if d.maxRows > 0 && n > d.maxRows {
		return ErrTooManyRows
	}
	return nil
}
