package response

import (
	"time"

	"github.com/unidrl/campus-connect/internal/domain"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// Ticket is a registration together with the image of its QR code.
type Ticket struct {
	domain.Registration
	QRImageURL string `json:"qr_image_url"`
}

type CheckoutQR struct {
	domain.CheckoutQR
	Expired    bool   `json:"expired"`
	QRImageURL string `json:"qr_image_url"`
}

type VerifyQR struct {
	EventID string `json:"event_id"`
}
