package dao

import (
	"context"
	"errors"
	"fmt"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventExists   = errors.New("event already exists")
	ErrEventFull     = errors.New("event has no seats left")
)

type Seats struct {
	Total int `json:"total" yaml:"total"`
	Left  int `json:"left" yaml:"left"`
}

type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Status      string `json:"status" yaml:"status"`
	Points      int    `json:"points" yaml:"points"`
	Date        string `json:"date" yaml:"date"`
	Time        string `json:"time" yaml:"time"`
	Location    string `json:"location" yaml:"location"`
	Seats       Seats  `json:"seats" yaml:"seats"`
}

type EventDAO struct {
	doc *document[[]Event]
}

func NewEventDAO(store kvstore.Store) *EventDAO {
	return &EventDAO{
		doc: newDocument[[]Event](store, KeyEvents),
	}
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	events, _, err := d.doc.read(ctx)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	events, err := d.FindAll(ctx)
	if err != nil {
		return Event{}, err
	}

	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}

	return Event{}, ErrEventNotFound
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	err := d.doc.update(ctx, func(events *[]Event) error {
		for _, e := range *events {
			if e.ID == event.ID {
				return ErrEventExists
			}
		}
		*events = append(*events, event)

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// Update overwrites the stored event with the same id in place.
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	err := d.doc.update(ctx, func(events *[]Event) error {
		for i := range *events {
			if (*events)[i].ID == event.ID {
				(*events)[i] = event
				return nil
			}
		}

		return ErrEventNotFound
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// AdjustSeatsLeft adds delta to the event's free seats, keeping the result
// within [0, total]. Events without a seat limit (total == 0) are untouched.
func (d *EventDAO) AdjustSeatsLeft(ctx context.Context, id string, delta int) (Event, error) {
	var updated Event

	err := d.doc.update(ctx, func(events *[]Event) error {
		for i := range *events {
			e := &(*events)[i]
			if e.ID != id {
				continue
			}

			if e.Seats.Total > 0 {
				left := e.Seats.Left + delta
				if left < 0 {
					return ErrEventFull
				}
				if left > e.Seats.Total {
					left = e.Seats.Total
				}
				e.Seats.Left = left
			}
			updated = *e

			return nil
		}

		return ErrEventNotFound
	})
	if err != nil {
		return Event{}, err
	}

	return updated, nil
}

// Seed stores events unless the catalog already exists. It reports whether
// anything was written.
func (d *EventDAO) Seed(ctx context.Context, events []Event) (bool, error) {
	seeded := false

	err := d.doc.update(ctx, func(existing *[]Event) error {
		if len(*existing) > 0 {
			return nil
		}
		*existing = append([]Event(nil), events...)
		seeded = true

		return nil
	})
	if err != nil {
		return false, fmt.Errorf("d.doc.update -> %w", err)
	}

	return seeded, nil
}
