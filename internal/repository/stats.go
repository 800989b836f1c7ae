package repository

import (
	"context"
	"fmt"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/repository/dao"
)

var ErrTooManyRows = dao.ErrTooManyRows

type StatsDAO interface {
	Load(ctx context.Context, f domain.StatsFilter, withEventDrops bool) (dao.StatsRows, error)
}

type StatsRepository struct {
	dao StatsDAO
}

func NewStatsRepository(dao StatsDAO) *StatsRepository {
	return &StatsRepository{
		dao: dao,
	}
}

// LoadStatsSet returns the events and drops matching f from one consistent snapshot.
func (r *StatsRepository) LoadStatsSet(ctx context.Context, f domain.StatsFilter, withEventDrops bool) (domain.StatsSet, error) {
	rows, err := r.dao.Load(ctx, f, withEventDrops)
	if err != nil {
		return domain.StatsSet{}, fmt.Errorf("r.dao.Load -> %w", err)
	}

	set := domain.StatsSet{
		Events: make([]domain.EventRecord, 0, len(rows.Events)),
		Drops:  dropRowsToDomain(rows.Drops),
	}
	for _, e := range rows.Events {
		set.Events = append(set.Events, domain.EventRecord{
			ID:         e.ID,
			Date:       e.Date,
			FarmType:   domain.SourceType(e.FarmType),
			SourceID:   e.SourceID,
			SourceName: e.SourceName,
		})
	}
	if withEventDrops {
		set.EventDrops = dropRowsToDomain(rows.EventDrops)
	}

	return set, nil
}

func dropRowsToDomain(rows []dao.DropRow) []domain.DropRecord {
	drops := make([]domain.DropRecord, 0, len(rows))
	for _, d := range rows {
		drops = append(drops, domain.DropRecord{
			EventID:    d.EventID,
			EventDate:  d.EventDate,
			RewardID:   d.RewardID,
			RewardName: d.RewardName,
			Rarity:     domain.Rarity(d.Rarity),
			Quantity:   d.Quantity,
		})
	}
	return drops
}
