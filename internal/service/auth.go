package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserMSSVExists  = repository.ErrUserMSSVExists
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	CountAdmins(ctx context.Context) (int, error)
}

type AuthService struct {
	repo AuthUserRepository
	now  func() time.Time
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash
	user.Email = strings.TrimSpace(user.Email)
	user.MSSV = strings.TrimSpace(user.MSSV)
	if user.Role == "" {
		user.Role = domain.RoleStudent
	}
	user.CreatedAt = s.now()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// SeedAdmin creates the first admin account unless one already exists.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		zap.L().Info("no admin account configured, skipping admin seed")
		return nil
	}

	n, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.CountAdmins -> %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.Signup(ctx, domain.User{
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
		Name:     name,
	})
	if err != nil {
		return fmt.Errorf("s.Signup -> %w", err)
	}

	zap.L().Info("seeded admin account", zap.String("email", email))

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
