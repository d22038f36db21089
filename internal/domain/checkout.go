package domain

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

const checkoutTokenPrefix = "VNUK-CHECKOUT"

var ErrInvalidCheckoutToken = errors.New("invalid checkout QR format")

type CheckoutQR struct {
	Code      string    `json:"code"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedBy string    `json:"created_by"`
}

func (q CheckoutQR) ExpiredAt(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// CheckoutToken is the payload of a checkout QR code. The event id is
// base64url encoded so ids containing separators survive the round trip.
type CheckoutToken struct {
	EventID string
	Nonce   string
}

func (t CheckoutToken) Encode() string {
	return strings.Join([]string{
		checkoutTokenPrefix,
		base64.RawURLEncoding.EncodeToString([]byte(t.EventID)),
		t.Nonce,
	}, ".")
}

func ParseCheckoutToken(s string) (CheckoutToken, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 || parts[0] != checkoutTokenPrefix || parts[1] == "" || parts[2] == "" {
		return CheckoutToken{}, ErrInvalidCheckoutToken
	}

	eventID, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(eventID) == 0 {
		return CheckoutToken{}, ErrInvalidCheckoutToken
	}

	return CheckoutToken{EventID: string(eventID), Nonce: parts[2]}, nil
}

// Quiz is what a student sees when the event awards badges: the questions
// without their answers, plus the thresholds.
type Quiz struct {
	EventID   string     `json:"event_id"`
	Questions []string   `json:"questions"`
	Rules     BadgeRules `json:"rules"`
}

type CheckoutResult struct {
	EventID      string        `json:"event_id"`
	Completed    bool          `json:"completed"`
	Registration *Registration `json:"registration,omitempty"`
	Quiz         *Quiz         `json:"quiz,omitempty"`
}
