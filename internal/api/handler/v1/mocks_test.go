package v1

import (
	"context"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/service"
)

type mockUserService struct {
	users     map[uint]domain.User
	updateErr error
	deleteErr error
	deleted   []uint
}

func (m *mockUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserService) UpdateProfile(_ context.Context, id uint, upd domain.ProfileUpdate) (domain.User, error) {
	if m.updateErr != nil {
		return domain.User{}, m.updateErr
	}
	u := m.users[id]
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	m.users[id] = u
	return u, nil
}

func (m *mockUserService) DeleteAccount(_ context.Context, id uint, _ string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAuthService struct {
	registerErr error
	loginUser   domain.User
	loginErr    error
	question    string
	questionErr error
	resetErr    error
	registered  domain.User
}

func (m *mockAuthService) Register(_ context.Context, user domain.User) (domain.User, error) {
	if m.registerErr != nil {
		return domain.User{}, m.registerErr
	}
	m.registered = user
	user.ID = 1
	return user, nil
}

func (m *mockAuthService) Login(_ context.Context, _, _ string) (domain.User, error) {
	return m.loginUser, m.loginErr
}

func (m *mockAuthService) SecretQuestion(_ context.Context, _ string) (string, error) {
	return m.question, m.questionErr
}

func (m *mockAuthService) ResetPasswordWithSecret(_ context.Context, _, _, _ string) error {
	return m.resetErr
}

type mockFarmService struct {
	games       map[uint]domain.Game
	createErr   error
	recordErr   error
	recorded    domain.FarmEvent
	drops       []domain.NewDrop
	events      []domain.FarmEvent
	history     service.HistoryQuery
	historyErr  error
	sourcesType string
	writes      int
}

func (m *mockFarmService) ListGames(_ context.Context) ([]domain.Game, error) {
	out := make([]domain.Game, 0, len(m.games))
	for _, g := range m.games {
		out = append(out, g)
	}
	return out, nil
}

func (m *mockFarmService) GetGame(_ context.Context, id uint) (domain.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return domain.Game{}, service.ErrGameNotFound
	}
	return g, nil
}

func (m *mockFarmService) CreateGame(_ context.Context, name string) (domain.Game, error) {
	m.writes++
	if m.createErr != nil {
		return domain.Game{}, m.createErr
	}
	return domain.Game{ID: 9, Name: name}, nil
}

func (m *mockFarmService) DeleteGame(_ context.Context, id uint) error {
	m.writes++
	if _, ok := m.games[id]; !ok {
		return service.ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *mockFarmService) ListSources(_ context.Context, gameID uint, sourceType string) ([]domain.FarmSource, error) {
	if _, ok := m.games[gameID]; !ok {
		return nil, service.ErrGameNotFound
	}
	m.sourcesType = sourceType
	return []domain.FarmSource{}, nil
}

func (m *mockFarmService) CreateSource(_ context.Context, source domain.FarmSource) (domain.FarmSource, error) {
	m.writes++
	source.ID = 4
	return source, nil
}

func (m *mockFarmService) ListRewards(_ context.Context, _, _ uint) ([]domain.FarmReward, error) {
	return []domain.FarmReward{}, nil
}

func (m *mockFarmService) RecordEvent(_ context.Context, userID, gameID uint, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error) {
	if m.recordErr != nil {
		return domain.FarmEvent{}, m.recordErr
	}
	event.ID = 1
	event.UserID = userID
	event.GameID = gameID
	for _, d := range drops {
		event.Drops = append(event.Drops, domain.FarmDrop{RewardName: d.RewardName, Rarity: d.Rarity, Quantity: d.Quantity})
	}
	m.recorded = event
	m.drops = drops
	return event, nil
}

func (m *mockFarmService) GetEvent(_ context.Context, gameID, id uint) (domain.FarmEvent, error) {
	for _, e := range m.events {
		if e.ID == id && e.GameID == gameID {
			return e, nil
		}
	}
	return domain.FarmEvent{}, service.ErrEventNotFound
}

func (m *mockFarmService) DeleteEvent(ctx context.Context, _, gameID, id uint) error {
	_, err := m.GetEvent(ctx, gameID, id)
	return err
}

func (m *mockFarmService) ListUserEvents(_ context.Context, _, _ uint) ([]domain.FarmEvent, error) {
	return m.events, nil
}

func (m *mockFarmService) History(_ context.Context, _ domain.User, _ uint, q service.HistoryQuery) ([]domain.FarmEvent, error) {
	m.history = q
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.events, nil
}

type mockStatsService struct {
	report domain.StatsReport
	rate   domain.DropRate
	err    error
	filter domain.StatsFilter
}

func (m *mockStatsService) UserStats(_ context.Context, f domain.StatsFilter) (domain.StatsReport, error) {
	m.filter = f
	return m.report, m.err
}

func (m *mockStatsService) FarmStats(_ context.Context, f domain.StatsFilter) (domain.StatsReport, error) {
	m.filter = f
	return m.report, m.err
}

func (m *mockStatsService) DropRate(_ context.Context, f domain.StatsFilter) (domain.DropRate, error) {
	m.filter = f
	return m.rate, m.err
}
