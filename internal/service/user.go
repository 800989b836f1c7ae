package service

import (
	"context"
	"fmt"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
	SetStaff(ctx context.Context, username string, staff bool) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// SetStaff grants or revokes the right to curate games and farm sources.
func (s *UserService) SetStaff(ctx context.Context, username string, staff bool) error {
	if err := s.repo.SetStaff(ctx, username, staff); err != nil {
		return fmt.Errorf("s.repo.SetStaff -> %w", err)
	}

	return nil
}

// UpdateProfile applies upd to the user after checking the current password.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, upd domain.ProfileUpdate) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !checkHash(user.Password, upd.CurrentPassword) {
		return domain.User{}, ErrWrongPassword
	}

	var username, email string
	if upd.Username != nil {
		username = *upd.Username
		user.Username = username
	}
	if upd.Email != nil {
		email = *upd.Email
		user.Email = email
	}
	if err = checkUnique(ctx, s.repo, username, email, user.ID); err != nil {
		return domain.User{}, err
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.SecretQuestion != nil {
		user.SecretQuestion = *upd.SecretQuestion
	}
	if upd.SecretAnswer != "" {
		if user.SecretAnswer, err = hashPassword(upd.SecretAnswer); err != nil {
			return domain.User{}, err
		}
	}
	if upd.NewPassword != "" {
		if user.Password, err = hashPassword(upd.NewPassword); err != nil {
			return domain.User{}, err
		}
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, id uint, password string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !checkHash(user.Password, password) {
		return ErrWrongPassword
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
