package domain

import (
	"fmt"
	"time"
)

const (
	UpdateRegistered = "registration.created"
	UpdateCheckedIn  = "registration.checked_in"
	UpdateCompleted  = "registration.completed"
	UpdateAbsent     = "registration.absent"
	UpdateCancelled  = "registration.cancelled"
)

type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusPending    RegistrationStatus = "pending"
	StatusCheckedIn  RegistrationStatus = "checked-in"
	StatusCompleted  RegistrationStatus = "completed"
	StatusAbsent     RegistrationStatus = "absent"
)

// IsPending reports whether the registration is still waiting for check-in.
// Older records used "pending" instead of "registered".
func (s RegistrationStatus) IsPending() bool {
	return s == StatusRegistered || s == StatusPending
}

type Registration struct {
	MSSV             string             `json:"mssv"`
	Email            string             `json:"email"`
	Name             string             `json:"name"`
	Class            string             `json:"class"`
	EventID          string             `json:"event_id"`
	QRToken          string             `json:"qr_token"`
	Status           RegistrationStatus `json:"status"`
	RegistrationDate time.Time          `json:"registration_date"`
	CheckInTime      *time.Time         `json:"check_in_time"`
	CheckoutTime     *time.Time         `json:"checkout_time"`
	BadgeEarned      BadgeTier          `json:"badge_earned"`
	CorrectAnswers   int                `json:"correct_answers"`
	UpdatedAt        *time.Time         `json:"updated_at,omitempty"`
}

// TicketToken is the string encoded in a student's ticket QR code.
func TicketToken(mssv, eventID string) string {
	return fmt.Sprintf("%s_%s", mssv, eventID)
}

// RegistrationPatch carries the fields to overwrite on an existing registration.
// Nil fields are left untouched.
type RegistrationPatch struct {
	Status         *RegistrationStatus
	CheckInTime    *time.Time
	CheckoutTime   *time.Time
	BadgeEarned    *BadgeTier
	CorrectAnswers *int
}

func (p RegistrationPatch) Apply(r *Registration) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.CheckInTime != nil {
		t := *p.CheckInTime
		r.CheckInTime = &t
	}
	if p.CheckoutTime != nil {
		t := *p.CheckoutTime
		r.CheckoutTime = &t
	}
	if p.BadgeEarned != nil {
		r.BadgeEarned = *p.BadgeEarned
	}
	if p.CorrectAnswers != nil {
		r.CorrectAnswers = *p.CorrectAnswers
	}
}

type Statistics struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Absent    int `json:"absent"`
}

func CountStatistics(regs []Registration) Statistics {
	stats := Statistics{Total: len(regs)}
	for _, r := range regs {
		switch {
		case r.Status.IsPending():
			stats.Pending++
		case r.Status == StatusCheckedIn:
			stats.CheckedIn++
		case r.Status == StatusCompleted:
			stats.Completed++
		case r.Status == StatusAbsent:
			stats.Absent++
		}
	}

	return stats
}

// RegistrationUpdate is broadcast to live dashboards whenever a registration
// changes state.
type RegistrationUpdate struct {
	Type         string       `json:"type"`
	EventID      string       `json:"event_id"`
	Registration Registration `json:"registration"`
	Statistics   *Statistics  `json:"statistics,omitempty"`
}
