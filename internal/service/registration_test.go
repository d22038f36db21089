package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/kvstore"
)

// slowStore widens the window between reading and writing a document.
type slowStore struct {
	*kvstore.Memory
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Memory.Get(ctx, key)
}

// concurrently runs fn from n goroutines and returns the errors they got.
func concurrently(n int, fn func() error) []error {
	var wg sync.WaitGroup
	errs := make([]error, n)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()

	return errs
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}

	return n
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	reg, err := f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, reg.Status)
	assert.Equal(t, "20230592_hackathon-2024", reg.QRToken)
	assert.Equal(t, f.clock.Now(), reg.RegistrationDate)

	event, err := f.events.Get(ctx, "hackathon-2024")
	require.NoError(t, err)
	assert.Equal(t, 119, event.Seats.Left)

	_, err = f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = f.registrations.Register(ctx, student("20230592", "no-such-event"))
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.Equal(t, []string{domain.UpdateRegistered}, f.notifier.types())
	require.NotNil(t, f.notifier.updates[0].Statistics)
	assert.Equal(t, 1, f.notifier.updates[0].Statistics.Pending)
}

func TestRegistrationService_RegisterFullEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.events.Create(ctx, domain.Event{ID: "workshop", Title: "Workshop", Seats: domain.Seats{Total: 1}})
	require.NoError(t, err)

	_, err = f.registrations.Register(ctx, student("1", "workshop"))
	require.NoError(t, err)

	_, err = f.registrations.Register(ctx, student("2", "workshop"))
	assert.ErrorIs(t, err, ErrEventFull)

	ok, err := f.registrations.repo.IsRegistered(ctx, "2", "workshop")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistrationService_CheckIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
	require.NoError(t, err)

	reg, err := f.registrations.CheckIn(ctx, "20230592_HACKATHON-2024")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, reg.Status)
	require.NotNil(t, reg.CheckInTime)
	assert.True(t, f.clock.Now().Equal(*reg.CheckInTime))

	_, err = f.registrations.CheckIn(ctx, "20230592_hackathon-2024")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	_, err = f.registrations.CheckIn(ctx, "nobody_hackathon-2024")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRegistrationService_MarkAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registrations.Register(ctx, student("1", "hackathon-2024"))
	require.NoError(t, err)
	f.checkedIn(t, "2", "hackathon-2024")

	reg, err := f.registrations.MarkAbsent(ctx, "1", "hackathon-2024")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbsent, reg.Status)

	_, err = f.registrations.MarkAbsent(ctx, "2", "hackathon-2024")
	assert.ErrorIs(t, err, ErrNotAwaitingCheckIn)

	_, err = f.registrations.MarkAbsent(ctx, "3", "hackathon-2024")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRegistrationService_CancelReleasesSeat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registrations.Register(ctx, student("20230592", "english-talk-show"))
	require.NoError(t, err)

	require.NoError(t, f.registrations.Cancel(ctx, "20230592", "english-talk-show"))

	event, err := f.events.Get(ctx, "english-talk-show")
	require.NoError(t, err)
	assert.Equal(t, 60, event.Seats.Left)

	regs, err := f.registrations.ListByStudent(ctx, "20230592")
	require.NoError(t, err)
	assert.Empty(t, regs)

	err = f.registrations.Cancel(ctx, "20230592", "english-talk-show")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	assert.Equal(t, []string{domain.UpdateRegistered, domain.UpdateCancelled}, f.notifier.types())
}

func TestRegistrationService_Statistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, mssv := range []string{"1", "2", "3", "4"} {
		_, err := f.registrations.Register(ctx, student(mssv, "hackathon-2024"))
		require.NoError(t, err)
	}
	f.checkedIn(t, "5", "hackathon-2024")
	_, err := f.registrations.MarkAbsent(ctx, "4", "hackathon-2024")
	require.NoError(t, err)
	f.checkedIn(t, "6", "career-fair-2024")

	stats, err := f.registrations.Statistics(ctx, "hackathon-2024")
	require.NoError(t, err)
	assert.Equal(t, domain.Statistics{Total: 5, Pending: 3, CheckedIn: 1, Absent: 1}, stats)

	stats, err = f.registrations.Statistics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.CheckedIn)

	regs, err := f.registrations.ListByEvent(ctx, "hackathon-2024")
	require.NoError(t, err)
	assert.Len(t, regs, 5)
}

func TestRegistrationService_ConcurrentRegisterTakesOneSeat(t *testing.T) {
	ctx := context.Background()
	f := newFixtureOn(t, slowStore{kvstore.NewMemory()})

	errs := concurrently(20, func() error {
		_, err := f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
		return err
	})

	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrAlreadyRegistered)
		}
	}

	regs, err := f.registrations.ListByEvent(ctx, "hackathon-2024")
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	event, err := f.events.Get(ctx, "hackathon-2024")
	require.NoError(t, err)
	assert.Equal(t, 119, event.Seats.Left)

	assert.Equal(t, []string{domain.UpdateRegistered}, f.notifier.types())
}

func TestRegistrationService_ConcurrentCheckInSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixtureOn(t, slowStore{kvstore.NewMemory()})

	reg, err := f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
	require.NoError(t, err)

	errs := concurrently(10, func() error {
		_, err := f.registrations.CheckIn(ctx, reg.QRToken)
		return err
	})

	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
		}
	}
	assert.Equal(t, []string{domain.UpdateRegistered, domain.UpdateCheckedIn}, f.notifier.types())
}

func TestRegistrationService_ConcurrentCancelReleasesOneSeat(t *testing.T) {
	ctx := context.Background()
	f := newFixtureOn(t, slowStore{kvstore.NewMemory()})

	_, err := f.registrations.Register(ctx, student("1", "english-talk-show"))
	require.NoError(t, err)
	_, err = f.registrations.Register(ctx, student("2", "english-talk-show"))
	require.NoError(t, err)

	errs := concurrently(10, func() error {
		return f.registrations.Cancel(ctx, "1", "english-talk-show")
	})

	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrRegistrationNotFound)
		}
	}

	event, err := f.events.Get(ctx, "english-talk-show")
	require.NoError(t, err)
	assert.Equal(t, 59, event.Seats.Left)
}

func TestRegistrationService_CheckInAfterAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	reg, err := f.registrations.Register(ctx, student("20230592", "hackathon-2024"))
	require.NoError(t, err)
	_, err = f.registrations.MarkAbsent(ctx, "20230592", "hackathon-2024")
	require.NoError(t, err)

	_, err = f.registrations.MarkAbsent(ctx, "20230592", "hackathon-2024")
	assert.ErrorIs(t, err, ErrNotAwaitingCheckIn)

	checked, err := f.registrations.CheckIn(ctx, reg.QRToken)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, checked.Status)
}
