package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/unidrl/campus-connect/internal/domain"
)

var ErrInvalidBadgeConfig = errors.New("invalid badge config")

type BadgeConfigRepository interface {
	Get(ctx context.Context, eventID string) (domain.BadgeConfig, error)
	Set(ctx context.Context, eventID string, cfg domain.BadgeConfig) error
}

type BadgeService struct {
	repo      BadgeConfigRepository
	eventRepo EventRepository
}

func NewBadgeService(repo BadgeConfigRepository, eventRepo EventRepository) *BadgeService {
	return &BadgeService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// GetConfig returns the badge config of an event. Events that never had one
// get the default config, which is stored on first read.
func (s *BadgeService) GetConfig(ctx context.Context, eventID string) (domain.BadgeConfig, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	cfg, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("s.repo.Get -> %w", err)
	}

	return cfg, nil
}

// SetConfig replaces the badge config of an event.
func (s *BadgeService) SetConfig(ctx context.Context, eventID string, cfg domain.BadgeConfig) (domain.BadgeConfig, error) {
	if err := cfg.Validate(); err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("%w: %v", ErrInvalidBadgeConfig, err)
	}
	if cfg.QAPairs == nil {
		cfg.QAPairs = []domain.QAPair{}
	}

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if err := s.repo.Set(ctx, eventID, cfg); err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("s.repo.Set -> %w", err)
	}

	return cfg, nil
}
