package repository

import (
	"context"
	"fmt"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/repository/dao"
)

var (
	ErrGameNotFound   = dao.ErrGameNotFound
	ErrGameExists     = dao.ErrGameExists
	ErrSourceNotFound = dao.ErrSourceNotFound
	ErrSourceExists   = dao.ErrSourceExists
	ErrEventNotFound  = dao.ErrEventNotFound
)

type FarmDAO interface {
	InsertGame(ctx context.Context, game dao.Game) (dao.Game, error)
	FindGameByID(ctx context.Context, id uint) (dao.Game, error)
	FindGames(ctx context.Context) ([]dao.Game, error)
	DeleteGame(ctx context.Context, id uint) error
	InsertSource(ctx context.Context, source dao.FarmSource) (dao.FarmSource, error)
	FindSourceByID(ctx context.Context, id uint) (dao.FarmSource, error)
	FindSources(ctx context.Context, gameID uint, sourceType string) ([]dao.FarmSource, error)
	FindRewards(ctx context.Context, gameID, sourceID uint) ([]dao.FarmReward, error)
	InsertEvent(ctx context.Context, event dao.FarmEvent, drops []dao.DropInput) (dao.FarmEvent, error)
	FindEventByID(ctx context.Context, id uint) (dao.FarmEvent, error)
	DeleteEvent(ctx context.Context, id, userID uint) error
	FindEventsByUser(ctx context.Context, gameID, userID uint) ([]dao.FarmEvent, error)
	FindHistory(ctx context.Context, userID, gameID, sourceID uint, sourceType string) ([]dao.FarmEvent, error)
}

type FarmRepository struct {
	dao FarmDAO
}

func NewFarmRepository(dao FarmDAO) *FarmRepository {
	return &FarmRepository{
		dao: dao,
	}
}

func (r *FarmRepository) CreateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := r.dao.InsertGame(ctx, dao.Game{Name: game.Name})
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.InsertGame -> %w", err)
	}

	return gameDAOToDomain(created), nil
}

func (r *FarmRepository) FindGameByID(ctx context.Context, id uint) (domain.Game, error) {
	found, err := r.dao.FindGameByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("r.dao.FindGameByID -> %w", err)
	}

	return gameDAOToDomain(found), nil
}

func (r *FarmRepository) FindGames(ctx context.Context) ([]domain.Game, error) {
	found, err := r.dao.FindGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGames -> %w", err)
	}

	games := make([]domain.Game, 0, len(found))
	for _, g := range found {
		games = append(games, gameDAOToDomain(g))
	}

	return games, nil
}

func (r *FarmRepository) DeleteGame(ctx context.Context, id uint) error {
	if err := r.dao.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteGame -> %w", err)
	}

	return nil
}

func (r *FarmRepository) CreateSource(ctx context.Context, source domain.FarmSource) (domain.FarmSource, error) {
	created, err := r.dao.InsertSource(ctx, dao.FarmSource{
		Name:       source.Name,
		Location:   source.Location,
		SourceType: string(source.SourceType),
		GameID:     source.GameID,
	})
	if err != nil {
		return domain.FarmSource{}, fmt.Errorf("r.dao.InsertSource -> %w", err)
	}

	return sourceDAOToDomain(created), nil
}

func (r *FarmRepository) FindSourceByID(ctx context.Context, id uint) (domain.FarmSource, error) {
	found, err := r.dao.FindSourceByID(ctx, id)
	if err != nil {
		return domain.FarmSource{}, fmt.Errorf("r.dao.FindSourceByID -> %w", err)
	}

	return sourceDAOToDomain(found), nil
}

func (r *FarmRepository) FindSources(ctx context.Context, gameID uint, sourceType string) ([]domain.FarmSource, error) {
	found, err := r.dao.FindSources(ctx, gameID, sourceType)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSources -> %w", err)
	}

	sources := make([]domain.FarmSource, 0, len(found))
	for _, s := range found {
		sources = append(sources, sourceDAOToDomain(s))
	}

	return sources, nil
}

func (r *FarmRepository) FindRewards(ctx context.Context, gameID, sourceID uint) ([]domain.FarmReward, error) {
	found, err := r.dao.FindRewards(ctx, gameID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRewards -> %w", err)
	}

	rewards := make([]domain.FarmReward, 0, len(found))
	for _, rw := range found {
		rewards = append(rewards, rewardDAOToDomain(rw))
	}

	return rewards, nil
}

func (r *FarmRepository) CreateEvent(ctx context.Context, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error) {
	inputs := make([]dao.DropInput, 0, len(drops))
	for _, d := range drops {
		inputs = append(inputs, dao.DropInput{
			RewardName: d.RewardName,
			Rarity:     string(d.Rarity),
			Quantity:   d.Quantity,
		})
	}

	created, err := r.dao.InsertEvent(ctx, dao.FarmEvent{
		UserID:   event.UserID,
		FarmType: string(event.FarmType),
		SourceID: event.SourceID,
		GameID:   event.GameID,
		Date:     event.Date,
	}, inputs)
	if err != nil {
		return domain.FarmEvent{}, fmt.Errorf("r.dao.InsertEvent -> %w", err)
	}

	return eventDAOToDomain(created), nil
}

func (r *FarmRepository) FindEventByID(ctx context.Context, id uint) (domain.FarmEvent, error) {
	found, err := r.dao.FindEventByID(ctx, id)
	if err != nil {
		return domain.FarmEvent{}, fmt.Errorf("r.dao.FindEventByID -> %w", err)
	}

	return eventDAOToDomain(found), nil
}

func (r *FarmRepository) DeleteEvent(ctx context.Context, id, userID uint) error {
	if err := r.dao.DeleteEvent(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteEvent -> %w", err)
	}

	return nil
}

func (r *FarmRepository) FindEventsByUser(ctx context.Context, gameID, userID uint) ([]domain.FarmEvent, error) {
	found, err := r.dao.FindEventsByUser(ctx, gameID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindEventsByUser -> %w", err)
	}

	return eventsDAOToDomain(found), nil
}

func (r *FarmRepository) FindHistory(ctx context.Context, f domain.HistoryFilter) ([]domain.FarmEvent, error) {
	found, err := r.dao.FindHistory(ctx, f.UserID, f.GameID, f.SourceID, f.Type)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindHistory -> %w", err)
	}

	return eventsDAOToDomain(found), nil
}

func gameDAOToDomain(g dao.Game) domain.Game {
	return domain.Game{
		ID:   g.ID,
		Name: g.Name,
	}
}

func sourceDAOToDomain(s dao.FarmSource) domain.FarmSource {
	rewards := make([]domain.FarmReward, 0, len(s.Rewards))
	for _, rw := range s.Rewards {
		rewards = append(rewards, rewardDAOToDomain(rw))
	}

	return domain.FarmSource{
		ID:         s.ID,
		Name:       s.Name,
		Location:   s.Location,
		SourceType: domain.SourceType(s.SourceType),
		GameID:     s.GameID,
		Rewards:    rewards,
	}
}

func rewardDAOToDomain(rw dao.FarmReward) domain.FarmReward {
	return domain.FarmReward{
		ID:       rw.ID,
		Name:     rw.Name,
		Rarity:   domain.Rarity(rw.Rarity),
		SourceID: rw.SourceID,
	}
}

func eventDAOToDomain(e dao.FarmEvent) domain.FarmEvent {
	drops := make([]domain.FarmDrop, 0, len(e.Drops))
	for _, d := range e.Drops {
		drops = append(drops, domain.FarmDrop{
			ID:         d.ID,
			EventID:    d.EventID,
			RewardID:   d.RewardID,
			RewardName: d.Reward.Name,
			Rarity:     domain.Rarity(d.Reward.Rarity),
			Quantity:   d.Quantity,
		})
	}

	return domain.FarmEvent{
		ID:         e.ID,
		UserID:     e.UserID,
		Username:   e.User.Username,
		FarmType:   domain.SourceType(e.FarmType),
		SourceID:   e.SourceID,
		SourceName: e.Source.Name,
		GameID:     e.GameID,
		Date:       e.Date,
		Drops:      drops,
		CreatedAt:  e.CreatedAt,
	}
}

func eventsDAOToDomain(found []dao.FarmEvent) []domain.FarmEvent {
	events := make([]domain.FarmEvent, 0, len(found))
	for _, e := range found {
		events = append(events, eventDAOToDomain(e))
	}
	return events
}
