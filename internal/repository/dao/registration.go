package dao

import (
	"context"
	"time"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

type Registration struct {
	MSSV             string     `json:"mssv"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Class            string     `json:"class"`
	EventID          string     `json:"eventId"`
	QRToken          string     `json:"qrToken"`
	Status           string     `json:"status"`
	RegistrationDate time.Time  `json:"registrationDate"`
	CheckInTime      *time.Time `json:"checkInTime"`
	CheckoutTime     *time.Time `json:"checkoutTime"`
	BadgeEarned      *string    `json:"badgeEarned"`
	CorrectAnswers   int        `json:"correctAnswers"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// RegistrationDAO owns the event_registrations document. Records are kept in
// insertion order.
type RegistrationDAO struct {
	doc *document[[]Registration]
}

func NewRegistrationDAO(store kvstore.Store) *RegistrationDAO {
	return &RegistrationDAO{
		doc: newDocument[[]Registration](store, KeyRegistrations),
	}
}

func (d *RegistrationDAO) FindAll(ctx context.Context) ([]Registration, error) {
	regs, _, err := d.doc.read(ctx)
	if err != nil {
		return nil, err
	}

	return regs, nil
}

// Mutate hands the whole collection to fn and persists what fn leaves behind.
func (d *RegistrationDAO) Mutate(ctx context.Context, fn func(regs []Registration) ([]Registration, error)) error {
	return d.doc.update(ctx, func(regs *[]Registration) error {
		updated, err := fn(*regs)
		if err != nil {
			return err
		}
		*regs = updated

		return nil
	})
}
