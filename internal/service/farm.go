package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/metrics"
	"github.com/farmlog/farmlog-api/internal/repository"
)

var (
	ErrGameNotFound       = repository.ErrGameNotFound
	ErrGameExists         = repository.ErrGameExists
	ErrSourceNotFound     = repository.ErrSourceNotFound
	ErrSourceExists       = repository.ErrSourceExists
	ErrEventNotFound      = repository.ErrEventNotFound
	ErrSourceGameMismatch = errors.New("the farm source does not belong to this game")
	ErrGameMismatch       = errors.New("gameID does not match the game in the path")
)

type FarmRepository interface {
	CreateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	FindGameByID(ctx context.Context, id uint) (domain.Game, error)
	FindGames(ctx context.Context) ([]domain.Game, error)
	DeleteGame(ctx context.Context, id uint) error
	CreateSource(ctx context.Context, source domain.FarmSource) (domain.FarmSource, error)
	FindSourceByID(ctx context.Context, id uint) (domain.FarmSource, error)
	FindSources(ctx context.Context, gameID uint, sourceType string) ([]domain.FarmSource, error)
	FindRewards(ctx context.Context, gameID, sourceID uint) ([]domain.FarmReward, error)
	CreateEvent(ctx context.Context, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error)
	FindEventByID(ctx context.Context, id uint) (domain.FarmEvent, error)
	DeleteEvent(ctx context.Context, id, userID uint) error
	FindEventsByUser(ctx context.Context, gameID, userID uint) ([]domain.FarmEvent, error)
	FindHistory(ctx context.Context, f domain.HistoryFilter) ([]domain.FarmEvent, error)
}

type HistoryUserFinder interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

type FarmService struct {
	repo  FarmRepository
	users HistoryUserFinder
	now   func() time.Time
}

func NewFarmService(repo FarmRepository, users HistoryUserFinder) *FarmService {
	return &FarmService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

func (s *FarmService) ListGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.repo.FindGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindGames -> %w", err)
	}

	return games, nil
}

func (s *FarmService) GetGame(ctx context.Context, id uint) (domain.Game, error) {
	game, err := s.repo.FindGameByID(ctx, id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.FindGameByID -> %w", err)
	}

	return game, nil
}

func (s *FarmService) CreateGame(ctx context.Context, name string) (domain.Game, error) {
	game, err := s.repo.CreateGame(ctx, domain.Game{Name: strings.TrimSpace(name)})
	if err != nil {
		return domain.Game{}, fmt.Errorf("s.repo.CreateGame -> %w", err)
	}

	return game, nil
}

func (s *FarmService) DeleteGame(ctx context.Context, id uint) error {
	if err := s.repo.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteGame -> %w", err)
	}

	return nil
}

// ListSources returns the sources of a game. sourceType follows the DOMAIN prefix rule.
func (s *FarmService) ListSources(ctx context.Context, gameID uint, sourceType string) ([]domain.FarmSource, error) {
	if _, err := s.repo.FindGameByID(ctx, gameID); err != nil {
		return nil, fmt.Errorf("s.repo.FindGameByID -> %w", err)
	}

	sources, err := s.repo.FindSources(ctx, gameID, sourceType)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindSources -> %w", err)
	}

	return sources, nil
}

func (s *FarmService) CreateSource(ctx context.Context, source domain.FarmSource) (domain.FarmSource, error) {
	if _, err := s.repo.FindGameByID(ctx, source.GameID); err != nil {
		return domain.FarmSource{}, fmt.Errorf("s.repo.FindGameByID -> %w", err)
	}

	source.SourceType = domain.NormalizeSourceType(string(source.SourceType))
	created, err := s.repo.CreateSource(ctx, source)
	if err != nil {
		return domain.FarmSource{}, fmt.Errorf("s.repo.CreateSource -> %w", err)
	}

	return created, nil
}

func (s *FarmService) ListRewards(ctx context.Context, gameID, sourceID uint) ([]domain.FarmReward, error) {
	rewards, err := s.repo.FindRewards(ctx, gameID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRewards -> %w", err)
	}

	return rewards, nil
}

// RecordEvent stores a farming run of userID in gameID. The source must belong to the
// game; an empty farm type falls back to the source's type.
func (s *FarmService) RecordEvent(ctx context.Context, userID, gameID uint, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error) {
	if _, err := s.repo.FindGameByID(ctx, gameID); err != nil {
		return domain.FarmEvent{}, fmt.Errorf("s.repo.FindGameByID -> %w", err)
	}

	source, err := s.repo.FindSourceByID(ctx, event.SourceID)
	if err != nil {
		return domain.FarmEvent{}, fmt.Errorf("s.repo.FindSourceByID -> %w", err)
	}
	if source.GameID != gameID {
		return domain.FarmEvent{}, ErrSourceGameMismatch
	}

	event.UserID = userID
	event.GameID = gameID
	event.FarmType = domain.NormalizeSourceType(string(event.FarmType))
	if event.FarmType == "" {
		event.FarmType = source.SourceType
	}
	now := s.now().UTC()
	event.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := range drops {
		drops[i].RewardName = strings.TrimSpace(drops[i].RewardName)
		drops[i].Rarity = domain.NormalizeRarity(string(drops[i].Rarity))
	}

	created, err := s.repo.CreateEvent(ctx, event, drops)
	if err != nil {
		return domain.FarmEvent{}, fmt.Errorf("s.repo.CreateEvent -> %w", err)
	}

	metrics.EventsRecorded.Inc()
	for _, d := range drops {
		metrics.DropsRecorded.WithLabelValues(string(d.Rarity)).Add(float64(d.Quantity))
	}

	return created, nil
}

func (s *FarmService) ListUserEvents(ctx context.Context, gameID, userID uint) ([]domain.FarmEvent, error) {
	events, err := s.repo.FindEventsByUser(ctx, gameID, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindEventsByUser -> %w", err)
	}

	return events, nil
}

// GetEvent returns an event of gameID. Events of other games are not found.
func (s *FarmService) GetEvent(ctx context.Context, gameID, id uint) (domain.FarmEvent, error) {
	event, err := s.repo.FindEventByID(ctx, id)
	if err != nil {
		return domain.FarmEvent{}, fmt.Errorf("s.repo.FindEventByID -> %w", err)
	}
	if event.GameID != gameID {
		return domain.FarmEvent{}, ErrEventNotFound
	}

	return event, nil
}

// DeleteEvent removes one of userID's events in gameID.
func (s *FarmService) DeleteEvent(ctx context.Context, userID, gameID, id uint) error {
	if _, err := s.GetEvent(ctx, gameID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, id, userID); err != nil {
		return fmt.Errorf("s.repo.DeleteEvent -> %w", err)
	}

	return nil
}

// HistoryQuery holds the optional parameters of a history lookup.
type HistoryQuery struct {
	Username string
	GameID   uint
	SourceID uint
	Type     string
}

// History lists the events of q.Username (the requester when empty) in pathGameID.
// An unknown username yields an empty list.
func (s *FarmService) History(ctx context.Context, requester domain.User, pathGameID uint, q HistoryQuery) ([]domain.FarmEvent, error) {
	if q.GameID != 0 && q.GameID != pathGameID {
		return nil, ErrGameMismatch
	}

	user := requester
	if q.Username != "" {
		found, err := s.users.FindByUsername(ctx, q.Username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return []domain.FarmEvent{}, nil
			}
			return nil, fmt.Errorf("s.users.FindByUsername -> %w", err)
		}
		user = found
	}

	events, err := s.repo.FindHistory(ctx, domain.HistoryFilter{
		GameID:   pathGameID,
		UserID:   user.ID,
		SourceID: q.SourceID,
		Type:     q.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindHistory -> %w", err)
	}

	return events, nil
}
