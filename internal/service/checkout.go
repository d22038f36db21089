package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository"
)

const fallbackValidity = 15 * time.Minute

var (
	ErrInvalidQRFormat      = domain.ErrInvalidCheckoutToken
	ErrCheckoutQRNotFound   = repository.ErrCheckoutQRNotFound
	ErrUnknownCheckoutEvent = errors.New("no checkout QR has been issued for this event")
	ErrQRMismatch           = errors.New("checkout QR has been replaced by a newer one")
	ErrQRExpired            = errors.New("checkout QR has expired")
	ErrNotRegistered        = errors.New("student is not registered for this event")
	ErrNotCheckedIn         = errors.New("student has not checked in")
	ErrAlreadyCompleted     = errors.New("student has already checked out")
	ErrBadgeNotClaimable    = errors.New("badges cannot be claimed for this event")
)

type CheckoutQRRepository interface {
	FindByEventID(ctx context.Context, eventID string) (domain.CheckoutQR, error)
	Put(ctx context.Context, qr domain.CheckoutQR) error
	Delete(ctx context.Context, eventID string) error
}

type CheckoutService struct {
	qrRepo    CheckoutQRRepository
	regRepo   RegistrationRepository
	eventRepo EventRepository
	badgeRepo BadgeConfigRepository
	notifier  Notifier

	defaultValidity atomic.Int64
	now             func() time.Time
	newNonce        func() string
}

func NewCheckoutService(
	qrRepo CheckoutQRRepository,
	regRepo RegistrationRepository,
	eventRepo EventRepository,
	badgeRepo BadgeConfigRepository,
) *CheckoutService {
	s := &CheckoutService{
		qrRepo:    qrRepo,
		regRepo:   regRepo,
		eventRepo: eventRepo,
		badgeRepo: badgeRepo,
		notifier:  nopNotifier{},
		now:       time.Now,
		newNonce:  uuid.NewString,
	}
	s.defaultValidity.Store(int64(fallbackValidity))

	return s
}

func (s *CheckoutService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetDefaultValidity changes the lifetime of QR codes issued without an
// explicit one. It is safe to call while requests are being served.
func (s *CheckoutService) SetDefaultValidity(d time.Duration) {
	if d <= 0 {
		return
	}
	s.defaultValidity.Store(int64(d))
}

func (s *CheckoutService) DefaultValidity() time.Duration {
	return time.Duration(s.defaultValidity.Load())
}

// IssueQR creates the checkout QR of an event, replacing any earlier one.
// A non-positive validMinutes falls back to the default validity.
func (s *CheckoutService) IssueQR(ctx context.Context, eventID string, validMinutes int, issuer string) (domain.CheckoutQR, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return domain.CheckoutQR{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	validity := time.Duration(validMinutes) * time.Minute
	if validMinutes <= 0 {
		validity = s.DefaultValidity()
	}

	now := s.now()
	qr := domain.CheckoutQR{
		Code:      domain.CheckoutToken{EventID: eventID, Nonce: s.newNonce()}.Encode(),
		EventID:   eventID,
		CreatedAt: now,
		ExpiresAt: now.Add(validity),
		CreatedBy: issuer,
	}
	if err := s.qrRepo.Put(ctx, qr); err != nil {
		return domain.CheckoutQR{}, fmt.Errorf("s.qrRepo.Put -> %w", err)
	}

	zap.L().Info("issued checkout QR",
		zap.String("event_id", eventID),
		zap.String("issuer", issuer),
		zap.Time("expires_at", qr.ExpiresAt),
	)

	return qr, nil
}

// VerifyQR checks a scanned checkout code and returns its event id.
func (s *CheckoutService) VerifyQR(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)

	token, err := domain.ParseCheckoutToken(code)
	if err != nil {
		return "", ErrInvalidQRFormat
	}

	stored, err := s.qrRepo.FindByEventID(ctx, token.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckoutQRNotFound) {
			return "", ErrUnknownCheckoutEvent
		}

		return "", fmt.Errorf("s.qrRepo.FindByEventID -> %w", err)
	}

	if stored.Code != code {
		return "", ErrQRMismatch
	}
	if stored.ExpiredAt(s.now()) {
		return "", ErrQRExpired
	}

	return token.EventID, nil
}

// ProcessCheckout checks a student out with a scanned checkout code. When the
// event awards badges nothing changes yet and the quiz is returned instead.
func (s *CheckoutService) ProcessCheckout(ctx context.Context, code, mssv string) (domain.CheckoutResult, error) {
	reg, err := s.checkoutCandidate(ctx, code, mssv)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	cfg, err := s.badgeRepo.Get(ctx, reg.EventID)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("s.badgeRepo.Get -> %w", err)
	}

	if !cfg.IsClaimable {
		completed, err := s.CompleteCheckout(ctx, mssv, reg.EventID, domain.BadgeNone, 0)
		if err != nil {
			return domain.CheckoutResult{}, err
		}

		return domain.CheckoutResult{
			EventID:      reg.EventID,
			Completed:    true,
			Registration: &completed,
		}, nil
	}

	return domain.CheckoutResult{
		EventID: reg.EventID,
		Quiz: &domain.Quiz{
			EventID:   reg.EventID,
			Questions: cfg.Questions(),
			Rules:     cfg.Rules,
		},
	}, nil
}

// SubmitQuiz scores a student's quiz answers and completes the checkout with
// the badge they earned.
func (s *CheckoutService) SubmitQuiz(ctx context.Context, code, mssv string, answers []string) (domain.Registration, error) {
	reg, err := s.checkoutCandidate(ctx, code, mssv)
	if err != nil {
		return domain.Registration{}, err
	}

	cfg, err := s.badgeRepo.Get(ctx, reg.EventID)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.badgeRepo.Get -> %w", err)
	}
	if !cfg.IsClaimable {
		return domain.Registration{}, ErrBadgeNotClaimable
	}

	correct := cfg.Score(answers)

	return s.CompleteCheckout(ctx, mssv, reg.EventID, domain.ScoreToBadge(correct, cfg.Rules), correct)
}

// CompleteCheckout marks the registration completed with the given result.
// Calling it again overwrites the earlier result.
func (s *CheckoutService) CompleteCheckout(ctx context.Context, mssv, eventID string, badge domain.BadgeTier, correctAnswers int) (domain.Registration, error) {
	reg, err := s.regRepo.FindByStudentAndEvent(ctx, mssv, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Registration{}, ErrNotRegistered
		}

		return domain.Registration{}, fmt.Errorf("s.regRepo.FindByStudentAndEvent -> %w", err)
	}

	if reg.Status == domain.StatusCompleted {
		zap.L().Warn("overwriting a completed checkout",
			zap.String("mssv", mssv),
			zap.String("event_id", eventID),
			zap.String("previous_badge", string(reg.BadgeEarned)),
			zap.String("badge", string(badge)),
		)
	}

	status := domain.StatusCompleted
	now := s.now()
	updated, err := s.regRepo.UpdateByKey(ctx, mssv, eventID, domain.RegistrationPatch{
		Status:         &status,
		CheckoutTime:   &now,
		BadgeEarned:    &badge,
		CorrectAnswers: &correctAnswers,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.regRepo.UpdateByKey -> %w", err)
	}

	publishUpdate(ctx, s.regRepo, s.notifier, domain.UpdateCompleted, updated)

	return updated, nil
}

func (s *CheckoutService) ActiveQR(ctx context.Context, eventID string) (domain.CheckoutQR, error) {
	qr, err := s.qrRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return domain.CheckoutQR{}, fmt.Errorf("s.qrRepo.FindByEventID -> %w", err)
	}

	return qr, nil
}

func (s *CheckoutService) DeleteQR(ctx context.Context, eventID string) error {
	if err := s.qrRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("s.qrRepo.Delete -> %w", err)
	}

	return nil
}

// IsExpired reports whether qr can no longer be used.
func (s *CheckoutService) IsExpired(qr domain.CheckoutQR) bool {
	return qr.ExpiredAt(s.now())
}

func (s *CheckoutService) checkoutCandidate(ctx context.Context, code, mssv string) (domain.Registration, error) {
	eventID, err := s.VerifyQR(ctx, code)
	if err != nil {
		return domain.Registration{}, err
	}

	reg, err := s.regRepo.FindByStudentAndEvent(ctx, mssv, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return domain.Registration{}, ErrNotRegistered
		}

		return domain.Registration{}, fmt.Errorf("s.regRepo.FindByStudentAndEvent -> %w", err)
	}

	if reg.Status == domain.StatusCompleted {
		return domain.Registration{}, ErrAlreadyCompleted
	}
	if reg.Status != domain.StatusCheckedIn && reg.CheckInTime == nil {
		return domain.Registration{}, ErrNotCheckedIn
	}

	return reg, nil
}
