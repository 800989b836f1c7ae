package dao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	farm   *FarmDAO
	user   User
	game   Game
	source FarmSource
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := freshDB(t)
	ctx := context.Background()

	user, err := NewUserDAO(db).Insert(ctx, User{Username: "traveler", Email: "traveler@example.com", Password: "x"})
	require.NoError(t, err)

	farm := NewFarmDAO(db)
	game, err := farm.InsertGame(ctx, Game{Name: "Teyvat"})
	require.NoError(t, err)

	source, err := farm.InsertSource(ctx, FarmSource{Name: "Abyss", SourceType: "DOMAIN_ARTIFACT", GameID: game.ID})
	require.NoError(t, err)

	return fixture{db: db, farm: farm, user: user, game: game, source: source}
}

func (f fixture) event(t *testing.T, date time.Time, drops ...DropInput) FarmEvent {
	t.Helper()
	e, err := f.farm.InsertEvent(context.Background(), FarmEvent{
		UserID:   f.user.ID,
		FarmType: f.source.SourceType,
		SourceID: f.source.ID,
		GameID:   f.game.ID,
		Date:     date,
	}, drops)
	require.NoError(t, err)
	return e
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFarmDAO_InsertEvent(t *testing.T) {
	f := newFixture(t)

	e := f.event(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 3},
		DropInput{RewardName: "Ore", Rarity: "COMMON", Quantity: 1},
	)

	require.Len(t, e.Drops, 2)
	assert.Equal(t, "Gem", e.Drops[0].Reward.Name)
	assert.Equal(t, 3, e.Drops[0].Quantity)
	assert.Equal(t, "traveler", e.User.Username)
	assert.Equal(t, "Abyss", e.Source.Name)
	assert.Equal(t, "2024-03-01", e.Date.Format(dateLayout))
}

func TestFarmDAO_RewardIsReused(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	f.event(t, day, DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 1})
	f.event(t, day, DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 2})
	f.event(t, day, DropInput{RewardName: "Gem", Rarity: "EPIC", Quantity: 1})

	var n int64
	require.NoError(t, f.db.Model(&FarmReward{}).
		Where("name = ? AND rarity = ? AND source_id = ?", "Gem", "RARE", f.source.ID).
		Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(2), count(t, f.db, &FarmReward{}))
}

func TestFarmDAO_ConcurrentRewardCreation(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.farm.InsertEvent(context.Background(), FarmEvent{
				UserID:   f.user.ID,
				FarmType: f.source.SourceType,
				SourceID: f.source.ID,
				GameID:   f.game.ID,
				Date:     day,
			}, []DropInput{{RewardName: "Crown", Rarity: "LEGENDARY", Quantity: 1}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), count(t, f.db, &FarmReward{}))
	assert.Equal(t, int64(workers), count(t, f.db, &FarmDrop{}))
}

func TestFarmDAO_InsertEvent_RollsBackOnBadQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.farm.InsertEvent(context.Background(), FarmEvent{
		UserID:   f.user.ID,
		FarmType: f.source.SourceType,
		SourceID: f.source.ID,
		GameID:   f.game.ID,
		Date:     time.Now(),
	}, []DropInput{{RewardName: "Gem", Rarity: "RARE", Quantity: 0}})

	require.Error(t, err)
	assert.Equal(t, int64(0), count(t, f.db, &FarmEvent{}))
	assert.Equal(t, int64(0), count(t, f.db, &FarmReward{}))
}

func TestFarmDAO_DeleteGameCascades(t *testing.T) {
	f := newFixture(t)
	f.event(t, time.Now(), DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 1})

	require.NoError(t, f.farm.DeleteGame(context.Background(), f.game.ID))

	assert.Equal(t, int64(0), count(t, f.db, &FarmSource{}))
	assert.Equal(t, int64(0), count(t, f.db, &FarmReward{}))
	assert.Equal(t, int64(0), count(t, f.db, &FarmEvent{}))
	assert.Equal(t, int64(0), count(t, f.db, &FarmDrop{}))
	assert.ErrorIs(t, f.farm.DeleteGame(context.Background(), f.game.ID), ErrGameNotFound)
}

func TestFarmDAO_UniqueNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.farm.InsertGame(ctx, Game{Name: "Teyvat"})
	assert.ErrorIs(t, err, ErrGameExists)

	_, err = f.farm.InsertSource(ctx, FarmSource{Name: "Abyss", SourceType: "BOSS", GameID: f.game.ID})
	assert.ErrorIs(t, err, ErrSourceExists)
}

func TestFarmDAO_FindSourcesByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.farm.InsertSource(ctx, FarmSource{Name: "Cradle", SourceType: "DOMAIN", GameID: f.game.ID})
	require.NoError(t, err)
	_, err = f.farm.InsertSource(ctx, FarmSource{Name: "Wolf", SourceType: "WEEKLY_BOSS", GameID: f.game.ID})
	require.NoError(t, err)

	domains, err := f.farm.FindSources(ctx, f.game.ID, "domain")
	require.NoError(t, err)
	require.Len(t, domains, 2)
	assert.Equal(t, "Abyss", domains[0].Name)
	assert.Equal(t, "Cradle", domains[1].Name)

	bosses, err := f.farm.FindSources(ctx, f.game.ID, "weekly boss")
	require.NoError(t, err)
	require.Len(t, bosses, 1)
	assert.Equal(t, "Wolf", bosses[0].Name)

	all, err := f.farm.FindSources(ctx, f.game.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFarmDAO_FindRewardsScopedToGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.event(t, time.Now(), DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 1})

	rewards, err := f.farm.FindRewards(ctx, f.game.ID, f.source.ID)
	require.NoError(t, err)
	assert.Len(t, rewards, 1)

	other, err := f.farm.InsertGame(ctx, Game{Name: "Elsewhere"})
	require.NoError(t, err)
	rewards, err = f.farm.FindRewards(ctx, other.ID, f.source.ID)
	require.NoError(t, err)
	assert.Empty(t, rewards)
}

func TestFarmDAO_FindHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older := f.event(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := f.event(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	events, err := f.farm.FindHistory(ctx, f.user.ID, f.game.ID, 0, "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newer.ID, events[0].ID)
	assert.Equal(t, older.ID, events[1].ID)

	events, err = f.farm.FindHistory(ctx, f.user.ID, 0, 0, "BOSS")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFarmDAO_DeleteEventOnlyOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.event(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), DropInput{RewardName: "Gem", Rarity: "RARE", Quantity: 1})

	assert.ErrorIs(t, f.farm.DeleteEvent(ctx, e.ID, f.user.ID+1), ErrEventNotFound)
	require.NoError(t, f.farm.DeleteEvent(ctx, e.ID, f.user.ID))

	_, err := f.farm.FindEventByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.Zero(t, count(t, f.db, &FarmDrop{}))
	assert.Equal(t, int64(1), count(t, f.db, &FarmReward{}))
}
