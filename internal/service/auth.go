package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/repository"
)

var (
	ErrUserEmailExists    = repository.ErrUserEmailExists
	ErrUserUsernameExists = repository.ErrUserUsernameExists
	ErrWrongPassword      = errors.New("wrong password")
	ErrNoSecretQuestion   = errors.New("this user has no secret question configured")
	ErrWrongSecretAnswer  = errors.New("wrong secret answer")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Register stores a new user. user.Password and user.SecretAnswer are expected in clear text.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if err := checkUnique(ctx, s.repo, user.Username, user.Email, 0); err != nil {
		return domain.User{}, err
	}

	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash
	user.IsStaff = false

	if user.SecretAnswer != "" {
		if user.SecretAnswer, err = hashPassword(user.SecretAnswer); err != nil {
			return domain.User{}, err
		}
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if !checkHash(user.Password, password) {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// SecretQuestion returns the secret question of the user known by identifier (username or email).
func (s *AuthService) SecretQuestion(ctx context.Context, identifier string) (string, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return "", err
	}
	if user.SecretQuestion == "" {
		return "", ErrNoSecretQuestion
	}

	return user.SecretQuestion, nil
}

func (s *AuthService) ResetPasswordWithSecret(ctx context.Context, identifier, answer, newPassword string) error {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if user.SecretAnswer == "" || !checkHash(user.SecretAnswer, answer) {
		return ErrWrongSecretAnswer
	}

	if user.Password, err = hashPassword(newPassword); err != nil {
		return err
	}
	if _, err = s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

// findByIdentifier tries the username first and falls back to the email.
func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.repo.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	user, err = s.repo.FindByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return user, nil
}

type uniquenessChecker interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// checkUnique rejects a username or email already taken by a user other than selfID.
// Empty values are not checked.
func checkUnique(ctx context.Context, repo uniquenessChecker, username, email string, selfID uint) error {
	if username != "" {
		found, err := repo.FindByUsername(ctx, username)
		if err == nil && found.ID != selfID {
			return ErrUserUsernameExists
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("repo.FindByUsername -> %w", err)
		}
	}

	if email != "" {
		found, err := repo.FindByEmail(ctx, email)
		if err == nil && found.ID != selfID {
			return ErrUserEmailExists
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("repo.FindByEmail -> %w", err)
		}
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	return string(hash), nil
}

func checkHash(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
