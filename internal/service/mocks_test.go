package service

import (
	"context"
	"strings"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/repository"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetStaff(_ context.Context, username string, staff bool) error {
	for id, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			u.IsStaff = staff
			r.users[id] = u
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type fakeFarmRepo struct {
	games   map[uint]domain.Game
	sources map[uint]domain.FarmSource
	events  []domain.FarmEvent
	drops   [][]domain.NewDrop
	history domain.HistoryFilter
}

func newFakeFarmRepo() *fakeFarmRepo {
	return &fakeFarmRepo{
		games:   map[uint]domain.Game{},
		sources: map[uint]domain.FarmSource{},
	}
}

func (r *fakeFarmRepo) CreateGame(_ context.Context, game domain.Game) (domain.Game, error) {
	game.ID = uint(len(r.games) + 1)
	r.games[game.ID] = game
	return game, nil
}

func (r *fakeFarmRepo) FindGameByID(_ context.Context, id uint) (domain.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return domain.Game{}, repository.ErrGameNotFound
	}
	return g, nil
}

func (r *fakeFarmRepo) FindGames(_ context.Context) ([]domain.Game, error) {
	games := make([]domain.Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	return games, nil
}

func (r *fakeFarmRepo) DeleteGame(_ context.Context, id uint) error {
	if _, ok := r.games[id]; !ok {
		return repository.ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *fakeFarmRepo) CreateSource(_ context.Context, source domain.FarmSource) (domain.FarmSource, error) {
	source.ID = uint(len(r.sources) + 1)
	r.sources[source.ID] = source
	return source, nil
}

func (r *fakeFarmRepo) FindSourceByID(_ context.Context, id uint) (domain.FarmSource, error) {
	s, ok := r.sources[id]
	if !ok {
		return domain.FarmSource{}, repository.ErrSourceNotFound
	}
	return s, nil
}

func (r *fakeFarmRepo) FindSources(_ context.Context, gameID uint, _ string) ([]domain.FarmSource, error) {
	var out []domain.FarmSource
	for _, s := range r.sources {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeFarmRepo) FindRewards(_ context.Context, _, _ uint) ([]domain.FarmReward, error) {
	return []domain.FarmReward{}, nil
}

func (r *fakeFarmRepo) CreateEvent(_ context.Context, event domain.FarmEvent, drops []domain.NewDrop) (domain.FarmEvent, error) {
	event.ID = uint(len(r.events) + 1)
	for _, d := range drops {
		event.Drops = append(event.Drops, domain.FarmDrop{RewardName: d.RewardName, Rarity: d.Rarity, Quantity: d.Quantity})
	}
	r.events = append(r.events, event)
	r.drops = append(r.drops, drops)
	return event, nil
}

func (r *fakeFarmRepo) FindEventByID(_ context.Context, id uint) (domain.FarmEvent, error) {
	for _, e := range r.events {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.FarmEvent{}, repository.ErrEventNotFound
}

func (r *fakeFarmRepo) DeleteEvent(_ context.Context, id, userID uint) error {
	for i, e := range r.events {
		if e.ID == id && e.UserID == userID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrEventNotFound
}

func (r *fakeFarmRepo) FindEventsByUser(_ context.Context, gameID, userID uint) ([]domain.FarmEvent, error) {
	var out []domain.FarmEvent
	for _, e := range r.events {
		if e.GameID == gameID && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeFarmRepo) FindHistory(_ context.Context, f domain.HistoryFilter) ([]domain.FarmEvent, error) {
	r.history = f
	return r.FindEventsByUser(context.Background(), f.GameID, f.UserID)
}

type fakeStatsRepo struct {
	set    domain.StatsSet
	err    error
	filter domain.StatsFilter
	calls  int
}

func (r *fakeStatsRepo) LoadStatsSet(_ context.Context, f domain.StatsFilter, withEventDrops bool) (domain.StatsSet, error) {
	r.calls++
	r.filter = f
	if r.err != nil {
		return domain.StatsSet{}, r.err
	}
	set := r.set
	if !withEventDrops {
		set.EventDrops = nil
	}
	return set, nil
}
