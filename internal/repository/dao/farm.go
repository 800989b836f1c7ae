package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("a game with this name already exists")
	ErrSourceNotFound = errors.New("farm source not found")
	ErrSourceExists   = errors.New("a farm source with this name already exists in this game")
	ErrEventNotFound  = errors.New("farm event not found")
)

type Game struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`

	Sources []FarmSource `gorm:"constraint:OnDelete:CASCADE"`
	Events  []FarmEvent  `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

type FarmSource struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null;uniqueIndex:idx_farm_sources_name_game"`
	Location   string
	SourceType string `gorm:"not null;index"`
	GameID     uint   `gorm:"not null;uniqueIndex:idx_farm_sources_name_game"`

	Rewards []FarmReward `gorm:"foreignKey:SourceID;constraint:OnDelete:CASCADE"`
}

type FarmReward struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null;uniqueIndex:idx_farm_rewards_identity"`
	Rarity   string `gorm:"not null;uniqueIndex:idx_farm_rewards_identity"`
	SourceID uint   `gorm:"not null;uniqueIndex:idx_farm_rewards_identity"`
}

type FarmEvent struct {
	ID       uint       `gorm:"primaryKey"`
	UserID   uint       `gorm:"not null;index"`
	User     User       `gorm:"constraint:OnDelete:CASCADE"`
	FarmType string     `gorm:"not null"`
	SourceID uint       `gorm:"not null;index"`
	Source   FarmSource `gorm:"constraint:OnDelete:CASCADE"`
	GameID   uint       `gorm:"not null;index"`
	Date     time.Time  `gorm:"type:date;not null;index"`

	Drops []FarmDrop `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

type FarmDrop struct {
	ID       uint       `gorm:"primaryKey"`
	EventID  uint       `gorm:"not null;index"`
	RewardID uint       `gorm:"not null;index"`
	Reward   FarmReward `gorm:"constraint:OnDelete:CASCADE"`
	Quantity int        `gorm:"not null;check:chk_farm_drops_quantity,quantity >= 1"`
}

// DropInput is a drop whose reward is resolved by (name, rarity) at insert time.
type DropInput struct {
	RewardName string
	Rarity     string
	Quantity   int
}

type FarmDAO struct {
	db *gorm.DB
}

func NewFarmDAO(db *gorm.DB) *FarmDAO {
	return &FarmDAO{
		db: db,
	}
}

func (d *FarmDAO) InsertGame(ctx context.Context, game Game) (Game, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&game)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Game{}, ErrGameExists
		}
		return Game{}, result.Error
	}

	return game, nil
}

func (d *FarmDAO) FindGameByID(ctx context.Context, id uint) (Game, error) {
	var game Game

	result := d.db.WithContext(ctx).First(&game, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Game{}, ErrGameNotFound
		}
		return Game{}, result.Error
	}

	return game, nil
}

func (d *FarmDAO) FindGames(ctx context.Context) ([]Game, error) {
	var games []Game

	if err := d.db.WithContext(ctx).Order("name").Find(&games).Error; err != nil {
		return nil, err
	}

	return games, nil
}

// DeleteGame removes the game. Sources, rewards, events and drops go with it through the foreign keys.
func (d *FarmDAO) DeleteGame(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Game{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}

	return nil
}

func (d *FarmDAO) InsertSource(ctx context.Context, source FarmSource) (FarmSource, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&source)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return FarmSource{}, ErrSourceExists
		}
		return FarmSource{}, result.Error
	}

	return source, nil
}

func (d *FarmDAO) FindSourceByID(ctx context.Context, id uint) (FarmSource, error) {
	var source FarmSource

	result := d.db.WithContext(ctx).First(&source, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return FarmSource{}, ErrSourceNotFound
		}
		return FarmSource{}, result.Error
	}

	return source, nil
}

// FindSources lists the sources of a game with their rewards. An empty sourceType disables the type filter.
func (d *FarmDAO) FindSources(ctx context.Context, gameID uint, sourceType string) ([]FarmSource, error) {
	var sources []FarmSource

	query := d.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Preload("Rewards", func(db *gorm.DB) *gorm.DB {
			return db.Order("farm_rewards.id")
		}).
		Order("name")
	if sourceType != "" {
		query = query.Scopes(typeScope("source_type", sourceType))
	}

	if err := query.Find(&sources).Error; err != nil {
		return nil, err
	}

	return sources, nil
}

// FindRewards returns the rewards of sourceID, or nothing when the source does not belong to gameID.
func (d *FarmDAO) FindRewards(ctx context.Context, gameID, sourceID uint) ([]FarmReward, error) {
	var rewards []FarmReward

	err := d.db.WithContext(ctx).
		Select("farm_rewards.*").
		Joins("JOIN farm_sources ON farm_sources.id = farm_rewards.source_id").
		Where("farm_rewards.source_id = ? AND farm_sources.game_id = ?", sourceID, gameID).
		Order("farm_rewards.id").
		Find(&rewards).Error
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

// InsertEvent stores the event, resolves every drop's reward and stores the drops in one transaction.
func (d *FarmDAO) InsertEvent(ctx context.Context, event FarmEvent, drops []DropInput) (FarmEvent, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&event).Error; err != nil {
			return fmt.Errorf("tx.Create(event) -> %w", err)
		}

		for _, in := range drops {
			reward, err := getOrCreateReward(tx, event.SourceID, in.RewardName, in.Rarity)
			if err != nil {
				return fmt.Errorf("getOrCreateReward -> %w", err)
			}

			drop := FarmDrop{EventID: event.ID, RewardID: reward.ID, Quantity: in.Quantity}
			if err = tx.Omit(clause.Associations).Create(&drop).Error; err != nil {
				return fmt.Errorf("tx.Create(drop) -> %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return FarmEvent{}, err
	}

	return d.FindEventByID(ctx, event.ID)
}

// getOrCreateReward inserts the reward unless (name, rarity, source) already exists.
// A concurrent insert of the same key turns ours into a no-op, after which the row is re-read.
func getOrCreateReward(tx *gorm.DB, sourceID uint, name, rarity string) (FarmReward, error) {
	reward := FarmReward{Name: name, Rarity: rarity, SourceID: sourceID}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "rarity"}, {Name: "source_id"}},
		DoNothing: true,
	}).Create(&reward).Error
	if err != nil {
		return FarmReward{}, err
	}

	if reward.ID == 0 {
		err = tx.Where("name = ? AND rarity = ? AND source_id = ?", name, rarity, sourceID).First(&reward).Error
		if err != nil {
			return FarmReward{}, err
		}
	}

	return reward, nil
}

func (d *FarmDAO) FindEventByID(ctx context.Context, id uint) (FarmEvent, error) {
	var event FarmEvent

	err := d.eventsWithDrops(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FarmEvent{}, ErrEventNotFound
		}
		return FarmEvent{}, err
	}

	return event, nil
}

// DeleteEvent removes an event of userID; its drops go with it. Events of other users are not found.
func (d *FarmDAO) DeleteEvent(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&FarmEvent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// FindEventsByUser lists a user's events in a game, newest first.
func (d *FarmDAO) FindEventsByUser(ctx context.Context, gameID, userID uint) ([]FarmEvent, error) {
	var events []FarmEvent

	err := d.eventsWithDrops(ctx).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Order("date DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

// FindHistory lists a user's events newest first. gameID, sourceID and sourceType are
// optional; sourceType is matched against the type of the event's source.
func (d *FarmDAO) FindHistory(ctx context.Context, userID, gameID, sourceID uint, sourceType string) ([]FarmEvent, error) {
	var events []FarmEvent

	query := d.eventsWithDrops(ctx).
		Select("farm_events.*").
		Joins("JOIN farm_sources ON farm_sources.id = farm_events.source_id").
		Where("farm_events.user_id = ?", userID)
	if gameID != 0 {
		query = query.Where("farm_events.game_id = ?", gameID)
	}
	if sourceID != 0 {
		query = query.Where("farm_events.source_id = ?", sourceID)
	}
	if sourceType != "" {
		query = query.Scopes(typeScope("farm_sources.source_type", sourceType))
	}

	if err := query.Order("farm_events.date DESC, farm_events.id DESC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *FarmDAO) eventsWithDrops(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Preload("User").
		Preload("Source").
		Preload("Drops", func(db *gorm.DB) *gorm.DB {
			return db.Order("farm_drops.id")
		}).
		Preload("Drops.Reward")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
