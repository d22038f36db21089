package repository

import (
	"context"
	"fmt"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

var ErrCheckoutQRNotFound = dao.ErrCheckoutQRNotFound

type CheckoutQRDAO interface {
	FindByEventID(ctx context.Context, eventID string) (dao.CheckoutQR, error)
	Put(ctx context.Context, qr dao.CheckoutQR) error
	Delete(ctx context.Context, eventID string) error
}

type CheckoutQRRepository struct {
	dao CheckoutQRDAO
}

func NewCheckoutQRRepository(dao CheckoutQRDAO) *CheckoutQRRepository {
	return &CheckoutQRRepository{
		dao: dao,
	}
}

func (r *CheckoutQRRepository) FindByEventID(ctx context.Context, eventID string) (domain.CheckoutQR, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return domain.CheckoutQR{}, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return domain.CheckoutQR{
		Code:      found.Code,
		EventID:   found.EventID,
		CreatedAt: found.CreatedAt,
		ExpiresAt: found.ExpiresAt,
		CreatedBy: found.CreatedBy,
	}, nil
}

func (r *CheckoutQRRepository) Put(ctx context.Context, qr domain.CheckoutQR) error {
	err := r.dao.Put(ctx, dao.CheckoutQR{
		Code:      qr.Code,
		EventID:   qr.EventID,
		CreatedAt: qr.CreatedAt,
		ExpiresAt: qr.ExpiresAt,
		CreatedBy: qr.CreatedBy,
	})
	if err != nil {
		return fmt.Errorf("r.dao.Put -> %w", err)
	}

	return nil
}

func (r *CheckoutQRRepository) Delete(ctx context.Context, eventID string) error {
	if err := r.dao.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
