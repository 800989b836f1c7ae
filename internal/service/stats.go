package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/metrics"
	"github.com/farmlog/farmlog-api/internal/repository"
	"github.com/farmlog/farmlog-api/internal/stats"
)

var (
	ErrGameRequired   = errors.New("game_id is required")
	ErrSourceRequired = errors.New("sourceID is required")
	ErrTooManyRows    = repository.ErrTooManyRows
)

type StatsRepository interface {
	LoadStatsSet(ctx context.Context, f domain.StatsFilter, withEventDrops bool) (domain.StatsSet, error)
}

type GameFinder interface {
	FindGameByID(ctx context.Context, id uint) (domain.Game, error)
}

type StatsService struct {
	repo  StatsRepository
	games GameFinder
}

func NewStatsService(repo StatsRepository, games GameFinder) *StatsService {
	return &StatsService{
		repo:  repo,
		games: games,
	}
}

// UserStats aggregates the events of f.UserID. An unknown game simply matches nothing.
func (s *StatsService) UserStats(ctx context.Context, f domain.StatsFilter) (domain.StatsReport, error) {
	if f.GameID == 0 {
		return domain.StatsReport{}, ErrGameRequired
	}

	set, err := s.load(ctx, "user", f, true)
	if err != nil {
		return domain.StatsReport{}, err
	}

	return domain.StatsReport{
		Summary: stats.Summarize(set.Events, set.Drops),
		Drops:   stats.GroupByReward(set.Drops, false),
		ByType:  stats.GroupByType(set.Events),
		ByDay:   stats.GroupByDay(set.Events, set.EventDrops),
	}, nil
}

// FarmStats aggregates every user's events in a game, including the spread of each reward.
func (s *StatsService) FarmStats(ctx context.Context, f domain.StatsFilter) (domain.StatsReport, error) {
	if err := s.checkGame(ctx, f.GameID); err != nil {
		return domain.StatsReport{}, err
	}

	set, err := s.load(ctx, "farm", f, false)
	if err != nil {
		return domain.StatsReport{}, err
	}

	return domain.StatsReport{
		Summary: stats.Summarize(set.Events, set.Drops),
		Drops:   stats.GroupByReward(set.Drops, true),
	}, nil
}

// DropRate computes how often the filtered item drops from f.SourceID.
// Without an item every drop of the source counts.
func (s *StatsService) DropRate(ctx context.Context, f domain.StatsFilter) (domain.DropRate, error) {
	if f.SourceID == 0 {
		return domain.DropRate{}, ErrSourceRequired
	}
	if err := s.checkGame(ctx, f.GameID); err != nil {
		return domain.DropRate{}, err
	}

	set, err := s.load(ctx, "drop_rate", f, false)
	if err != nil {
		return domain.DropRate{}, err
	}

	return stats.ComputeDropRate(len(set.Events), set.Drops), nil
}

func (s *StatsService) checkGame(ctx context.Context, gameID uint) error {
	if gameID == 0 {
		return ErrGameRequired
	}
	if _, err := s.games.FindGameByID(ctx, gameID); err != nil {
		return fmt.Errorf("s.games.FindGameByID -> %w", err)
	}
	return nil
}

func (s *StatsService) load(ctx context.Context, report string, f domain.StatsFilter, withEventDrops bool) (domain.StatsSet, error) {
	set, err := s.repo.LoadStatsSet(ctx, f, withEventDrops)
	if err != nil {
		return domain.StatsSet{}, fmt.Errorf("s.repo.LoadStatsSet -> %w", err)
	}

	metrics.StatsQueriesTotal.WithLabelValues(report).Inc()
	metrics.StatsRowsLoaded.WithLabelValues(report).Observe(float64(len(set.Events) + len(set.Drops) + len(set.EventDrops)))

	return set, nil
}
