package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository"
)

var (
	ErrEventNotFound  = repository.ErrEventNotFound
	ErrEventExists    = repository.ErrEventExists
	ErrEventFull      = repository.ErrEventFull
	ErrStorageFailure = repository.ErrStorageFailure
)

type EventRepository interface {
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	ReserveSeat(ctx context.Context, id string) (domain.Event, error)
	ReleaseSeat(ctx context.Context, id string) (domain.Event, error)
	Seed(ctx context.Context, seedFile string) (bool, error)
}

// EventRegistrations counts the registrations held for an event.
type EventRegistrations interface {
	Statistics(ctx context.Context, eventID string) (domain.Statistics, error)
}

type EventService struct {
	repo EventRepository
	regs EventRegistrations
}

func NewEventService(repo EventRepository, regs EventRegistrations) *EventService {
	return &EventService{
		repo: repo,
		regs: regs,
	}
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// Create adds an event. A new event starts with every seat available.
func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Seats.Left = event.Seats.Total

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Update overwrites an event in place. Seats already taken stay taken when
// the total changes. An unlimited event tracks no seat counter, so its
// registrations are counted instead.
func (s *EventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	stored, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	taken := stored.Seats.Total - stored.Seats.Left
	if stored.Seats.Total == 0 {
		stats, err := s.regs.Statistics(ctx, event.ID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("s.regs.Statistics -> %w", err)
		}
		taken = stats.Total
	}
	event.Seats.Left = max(event.Seats.Total-taken, 0)

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) Seed(ctx context.Context, seedFile string) error {
	seeded, err := s.repo.Seed(ctx, seedFile)
	if err != nil {
		return fmt.Errorf("s.repo.Seed -> %w", err)
	}

	if seeded {
		zap.L().Info("seeded event catalog", zap.String("file", seedFile))
	}

	return nil
}
