package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository"
)

var (
	ErrRegistrationNotFound = repository.ErrRegistrationNotFound
	ErrAlreadyRegistered    = repository.ErrAlreadyRegistered
	ErrAlreadyCheckedIn     = errors.New("registration is already checked in")
	ErrNotAwaitingCheckIn   = errors.New("registration is no longer waiting for check-in")
)

type RegistrationRepository interface {
	GetAll(ctx context.Context) ([]domain.Registration, error)
	GetByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
	GetByStudent(ctx context.Context, mssv string) ([]domain.Registration, error)
	FindByQRToken(ctx context.Context, token string) (domain.Registration, error)
	FindByStudentAndEvent(ctx context.Context, mssv, eventID string) (domain.Registration, error)
	Save(ctx context.Context, reg domain.Registration) error
	Create(ctx context.Context, reg domain.Registration) error
	Remove(ctx context.Context, mssv, eventID string) (domain.Registration, error)
	UpdateByQRToken(ctx context.Context, token string, patch domain.RegistrationPatch, guards ...repository.RegistrationGuard) (domain.Registration, error)
	UpdateByKey(ctx context.Context, mssv, eventID string, patch domain.RegistrationPatch, guards ...repository.RegistrationGuard) (domain.Registration, error)
	Delete(ctx context.Context, mssv, eventID string) error
	IsRegistered(ctx context.Context, mssv, eventID string) (bool, error)
	Statistics(ctx context.Context, eventID string) (domain.Statistics, error)
}

// Notifier receives every registration state change, e.g. to push it to live
// dashboards.
type Notifier interface {
	Publish(update domain.RegistrationUpdate)
}

type nopNotifier struct{}

func (nopNotifier) Publish(domain.RegistrationUpdate) {}

type RegistrationService struct {
	repo      RegistrationRepository
	eventRepo EventRepository
	notifier  Notifier
	now       func() time.Time
}

func NewRegistrationService(repo RegistrationRepository, eventRepo EventRepository) *RegistrationService {
	return &RegistrationService{
		repo:      repo,
		eventRepo: eventRepo,
		notifier:  nopNotifier{},
		now:       time.Now,
	}
}

func (s *RegistrationService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Register signs a student up for an event and takes one of its seats.
// Only MSSV, Email, Name, Class and EventID of reg are used. The record is
// inserted first so concurrent attempts for the same pair take one seat at
// most.
func (s *RegistrationService) Register(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, reg.EventID); err != nil {
		return domain.Registration{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	created := domain.Registration{
		MSSV:             reg.MSSV,
		Email:            reg.Email,
		Name:             reg.Name,
		Class:            reg.Class,
		EventID:          reg.EventID,
		QRToken:          domain.TicketToken(reg.MSSV, reg.EventID),
		Status:           domain.StatusRegistered,
		RegistrationDate: s.now(),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if _, err := s.eventRepo.ReserveSeat(ctx, reg.EventID); err != nil {
		if delErr := s.repo.Delete(ctx, reg.MSSV, reg.EventID); delErr != nil {
			zap.L().Error("failed to remove registration without a seat",
				zap.String("mssv", reg.MSSV), zap.String("event_id", reg.EventID), zap.Error(delErr))
		}

		return domain.Registration{}, fmt.Errorf("s.eventRepo.ReserveSeat -> %w", err)
	}

	s.publish(ctx, domain.UpdateRegistered, created)

	return created, nil
}

// CheckIn marks the registration behind a scanned ticket as present.
func (s *RegistrationService) CheckIn(ctx context.Context, token string) (domain.Registration, error) {
	reg, err := s.repo.FindByQRToken(ctx, token)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByQRToken -> %w", err)
	}

	notYetCheckedIn := func(stored domain.Registration) error {
		if stored.Status == domain.StatusCheckedIn || stored.Status == domain.StatusCompleted {
			return ErrAlreadyCheckedIn
		}
		return nil
	}

	status := domain.StatusCheckedIn
	now := s.now()
	patch := domain.RegistrationPatch{Status: &status, CheckInTime: &now}

	var updated domain.Registration
	if reg.QRToken != "" {
		updated, err = s.repo.UpdateByQRToken(ctx, reg.QRToken, patch, notYetCheckedIn)
	} else {
		updated, err = s.repo.UpdateByKey(ctx, reg.MSSV, reg.EventID, patch, notYetCheckedIn)
	}
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.publish(ctx, domain.UpdateCheckedIn, updated)

	return updated, nil
}

func (s *RegistrationService) MarkAbsent(ctx context.Context, mssv, eventID string) (domain.Registration, error) {
	status := domain.StatusAbsent
	updated, err := s.repo.UpdateByKey(ctx, mssv, eventID, domain.RegistrationPatch{Status: &status},
		func(stored domain.Registration) error {
			if !stored.Status.IsPending() {
				return ErrNotAwaitingCheckIn
			}
			return nil
		})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.UpdateByKey -> %w", err)
	}

	s.publish(ctx, domain.UpdateAbsent, updated)

	return updated, nil
}

// Cancel deletes a registration and gives its seat back to the event.
func (s *RegistrationService) Cancel(ctx context.Context, mssv, eventID string) error {
	reg, err := s.repo.Remove(ctx, mssv, eventID)
	if err != nil {
		return fmt.Errorf("s.repo.Remove -> %w", err)
	}

	if _, err = s.eventRepo.ReleaseSeat(ctx, eventID); err != nil {
		if !errors.Is(err, repository.ErrEventNotFound) {
			return fmt.Errorf("s.eventRepo.ReleaseSeat -> %w", err)
		}
		zap.L().Warn("cancelled registration of a deleted event", zap.String("event_id", eventID))
	}

	s.publish(ctx, domain.UpdateCancelled, reg)

	return nil
}

func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	regs, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByEvent -> %w", err)
	}

	return regs, nil
}

func (s *RegistrationService) ListByStudent(ctx context.Context, mssv string) ([]domain.Registration, error) {
	regs, err := s.repo.GetByStudent(ctx, mssv)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByStudent -> %w", err)
	}

	return regs, nil
}

// Statistics counts registrations of one event, or of all events when
// eventID is empty.
func (s *RegistrationService) Statistics(ctx context.Context, eventID string) (domain.Statistics, error) {
	stats, err := s.repo.Statistics(ctx, eventID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("s.repo.Statistics -> %w", err)
	}

	return stats, nil
}

func (s *RegistrationService) publish(ctx context.Context, kind string, reg domain.Registration) {
	publishUpdate(ctx, s.repo, s.notifier, kind, reg)
}

func publishUpdate(ctx context.Context, repo RegistrationRepository, n Notifier, kind string, reg domain.Registration) {
	update := domain.RegistrationUpdate{
		Type:         kind,
		EventID:      reg.EventID,
		Registration: reg,
	}

	stats, err := repo.Statistics(ctx, reg.EventID)
	if err != nil {
		zap.L().Warn("failed to compute statistics for live update",
			zap.String("event_id", reg.EventID), zap.Error(err))
	} else {
		update.Statistics = &stats
	}

	n.Publish(update)
}
