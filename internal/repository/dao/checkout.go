package dao

import (
	"context"
	"errors"
	"time"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

var ErrCheckoutQRNotFound = errors.New("checkout QR not found")

type CheckoutQR struct {
	Code      string    `json:"code"`
	EventID   string    `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedBy string    `json:"createdBy"`
}

// CheckoutQRDAO keeps at most one checkout QR per event.
type CheckoutQRDAO struct {
	doc *document[map[string]CheckoutQR]
}

func NewCheckoutQRDAO(store kvstore.Store) *CheckoutQRDAO {
	return &CheckoutQRDAO{
		doc: newDocument[map[string]CheckoutQR](store, KeyCheckoutQR),
	}
}

func (d *CheckoutQRDAO) FindByEventID(ctx context.Context, eventID string) (CheckoutQR, error) {
	codes, _, err := d.doc.read(ctx)
	if err != nil {
		return CheckoutQR{}, err
	}

	qr, ok := codes[eventID]
	if !ok {
		return CheckoutQR{}, ErrCheckoutQRNotFound
	}

	return qr, nil
}

// Put stores qr, replacing any previous code for the same event.
func (d *CheckoutQRDAO) Put(ctx context.Context, qr CheckoutQR) error {
	return d.doc.update(ctx, func(codes *map[string]CheckoutQR) error {
		if *codes == nil {
			*codes = make(map[string]CheckoutQR)
		}
		(*codes)[qr.EventID] = qr

		return nil
	})
}

// Delete drops the event's code. The whole key is removed once no event has
// a code left.
func (d *CheckoutQRDAO) Delete(ctx context.Context, eventID string) error {
	d.doc.mu.Lock()
	defer d.doc.mu.Unlock()

	codes, found, err := d.doc.load(ctx)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	delete(codes, eventID)
	if len(codes) > 0 {
		return d.doc.save(ctx, codes)
	}

	return d.doc.drop(ctx)
}
