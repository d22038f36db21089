package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/kvstore"
	"github.com/unidrl/campus-connect/internal/repository"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates []domain.RegistrationUpdate
}

func (n *recordingNotifier) Publish(update domain.RegistrationUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.updates = append(n.updates, update)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	types := make([]string, len(n.updates))
	for i, u := range n.updates {
		types[i] = u.Type
	}

	return types
}

type fixture struct {
	store    kvstore.Store
	clock    *clock
	notifier *recordingNotifier

	events        *EventService
	registrations *RegistrationService
	checkout      *CheckoutService
	badges        *BadgeService
	auth          *AuthService
	users         *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureOn(t, kvstore.NewMemory())
}

func newFixtureOn(t *testing.T, store kvstore.Store) *fixture {
	t.Helper()

	c := &clock{now: time.Date(2024, 11, 23, 8, 0, 0, 0, time.UTC)}
	n := &recordingNotifier{}

	eventRepo := repository.NewEventRepository(dao.NewEventDAO(store))
	regRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(store))
	qrRepo := repository.NewCheckoutQRRepository(dao.NewCheckoutQRDAO(store))
	badgeRepo := repository.NewBadgeConfigRepository(dao.NewBadgeConfigDAO(store))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(store))

	f := &fixture{
		store:         store,
		clock:         c,
		notifier:      n,
		events:        NewEventService(eventRepo, regRepo),
		registrations: NewRegistrationService(regRepo, eventRepo),
		checkout:      NewCheckoutService(qrRepo, regRepo, eventRepo, badgeRepo),
		badges:        NewBadgeService(badgeRepo, eventRepo),
		auth:          NewAuthService(userRepo),
		users:         NewUserService(userRepo),
	}

	f.registrations.now = c.Now
	f.registrations.SetNotifier(n)
	f.checkout.now = c.Now
	f.checkout.SetNotifier(n)
	f.auth.now = c.Now

	require.NoError(t, f.events.Seed(context.Background(), ""))

	return f
}

func student(mssv, eventID string) domain.Registration {
	return domain.Registration{
		MSSV:    mssv,
		Email:   mssv + "@vnuk.edu.vn",
		Name:    "Student " + mssv,
		Class:   "22CE",
		EventID: eventID,
	}
}

func (f *fixture) checkedIn(t *testing.T, mssv, eventID string) domain.Registration {
	t.Helper()
	ctx := context.Background()

	reg, err := f.registrations.Register(ctx, student(mssv, eventID))
	require.NoError(t, err)
	reg, err = f.registrations.CheckIn(ctx, reg.QRToken)
	require.NoError(t, err)

	return reg
}
