package repository

import (
	"context"
	"fmt"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
	ErrEventExists   = dao.ErrEventExists
	ErrEventFull     = dao.ErrEventFull
)

type EventDAO interface {
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	AdjustSeatsLeft(ctx context.Context, id string, delta int) (dao.Event, error)
	Seed(ctx context.Context, events []dao.Event) (bool, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) ReserveSeat(ctx context.Context, id string) (domain.Event, error) {
	updated, err := r.dao.AdjustSeatsLeft(ctx, id, -1)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.AdjustSeatsLeft -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) ReleaseSeat(ctx context.Context, id string) (domain.Event, error) {
	updated, err := r.dao.AdjustSeatsLeft(ctx, id, 1)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.AdjustSeatsLeft -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

// Seed stores the catalog read from seedFile (the built-in one when empty)
// unless events are already stored.
func (r *EventRepository) Seed(ctx context.Context, seedFile string) (bool, error) {
	events, err := dao.LoadEventSeed(seedFile)
	if err != nil {
		return false, fmt.Errorf("dao.LoadEventSeed -> %w", err)
	}

	seeded, err := r.dao.Seed(ctx, events)
	if err != nil {
		return false, fmt.Errorf("r.dao.Seed -> %w", err)
	}

	return seeded, nil
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Status:      e.Status,
		Points:      e.Points,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Seats: domain.Seats{
			Total: e.Seats.Total,
			Left:  e.Seats.Left,
		},
	}
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Status:      e.Status,
		Points:      e.Points,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Seats: dao.Seats{
			Total: e.Seats.Total,
			Left:  e.Seats.Left,
		},
	}
}
