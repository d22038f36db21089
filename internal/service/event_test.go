package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/domain"
)

func TestEventService_SeedOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	events, err := f.events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, "hackathon-2024", events[0].ID)

	_, err = f.events.Create(ctx, domain.Event{ID: "extra", Title: "Extra"})
	require.NoError(t, err)
	require.NoError(t, f.events.Seed(ctx, ""))

	events, err = f.events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestEventService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.events.Create(ctx, domain.Event{ID: "workshop", Title: "Go Workshop", Seats: domain.Seats{Total: 10, Left: 3}})
	require.NoError(t, err)
	assert.Equal(t, 10, created.Seats.Left)

	_, err = f.events.Create(ctx, domain.Event{ID: "workshop"})
	assert.ErrorIs(t, err, ErrEventExists)

	for _, mssv := range []string{"1", "2"} {
		_, err = f.registrations.Register(ctx, student(mssv, "workshop"))
		require.NoError(t, err)
	}

	updated, err := f.events.Update(ctx, domain.Event{ID: "workshop", Title: "Go Workshop II", Seats: domain.Seats{Total: 20}})
	require.NoError(t, err)
	assert.Equal(t, "Go Workshop II", updated.Title)
	assert.Equal(t, 18, updated.Seats.Left)

	_, err = f.events.Update(ctx, domain.Event{ID: "missing"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventService_UpdateLimitsUnlimitedEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.events.Create(ctx, domain.Event{ID: "open-day", Title: "Open Day"})
	require.NoError(t, err)

	for _, mssv := range []string{"1", "2"} {
		_, err = f.registrations.Register(ctx, student(mssv, "open-day"))
		require.NoError(t, err)
	}

	updated, err := f.events.Update(ctx, domain.Event{ID: "open-day", Title: "Open Day", Seats: domain.Seats{Total: 5}})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Seats.Left)

	updated, err = f.events.Update(ctx, domain.Event{ID: "open-day", Title: "Open Day", Seats: domain.Seats{Total: 1}})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Seats.Left)
}
