package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists    = errors.New("a user with this email already exists")
	ErrUserUsernameExists = errors.New("a user with this username already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"unique;not null"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	FirstName      string
	LastName       string
	SecretQuestion string
	SecretAnswer   string

	// IsStaff users curate games and farm sources.
	IsStaff bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		return User{}, userConflict(result.Error)
	}

	return user, nil
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Model(&User{ID: user.ID}).Select("*").Omit("id", "created_at").Updates(&user)
	if result.Error != nil {
		return User{}, userConflict(result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetStaff grants or revokes the staff flag of the user matching username case-insensitively.
func (d *UserDAO) SetStaff(ctx context.Context, username string, staff bool) error {
	result := d.db.WithContext(ctx).Model(&User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Update("is_staff", staff)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// FindByUsername matches the username case-insensitively.
func (d *UserDAO) FindByUsername(ctx context.Context, username string) (User, error) {
	return d.findOne(ctx, "LOWER(username) = LOWER(?)", username)
}

// FindByEmail matches the email case-insensitively.
func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	return d.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (d *UserDAO) findOne(ctx context.Context, query string, args ...any) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Where(query, args...).Order("id").First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func userConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrUserEmailExists
		case strings.Contains(pgErr.ConstraintName, "username"):
			return ErrUserUsernameExists
		}
	}

	return err
}
