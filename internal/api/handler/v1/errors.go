package v1

import (
	"errors"
	"fmt"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/service"
)

var (
	badRequestErrs = []error{
		service.ErrInvalidQRFormat,
		service.ErrInvalidBadgeConfig,
	}
	notFoundErrs = []error{
		service.ErrEventNotFound,
		service.ErrRegistrationNotFound,
		service.ErrCheckoutQRNotFound,
		service.ErrUnknownCheckoutEvent,
		service.ErrNotRegistered,
		service.ErrUserNotFound,
	}
	conflictErrs = []error{
		service.ErrAlreadyRegistered,
		service.ErrAlreadyCheckedIn,
		service.ErrAlreadyCompleted,
		service.ErrNotCheckedIn,
		service.ErrNotAwaitingCheckIn,
		service.ErrEventFull,
		service.ErrEventExists,
		service.ErrUserEmailExists,
		service.ErrUserMSSVExists,
		service.ErrQRMismatch,
		service.ErrBadgeNotClaimable,
	}
	goneErrs = []error{
		service.ErrQRExpired,
	}
)

// renderableErr maps a service error onto its HTTP response. Anything
// unknown, storage failures included, becomes a 500.
func renderableErr(op string, err error) *response.Err {
	sentinel := func(targets []error) error {
		for _, target := range targets {
			if errors.Is(err, target) {
				return target
			}
		}

		return nil
	}

	if target := sentinel(badRequestErrs); target != nil {
		return response.ErrBadRequest(err)
	}
	if target := sentinel(notFoundErrs); target != nil {
		return response.ErrNotFoundErr(target)
	}
	if target := sentinel(conflictErrs); target != nil {
		return response.ErrConflict(target)
	}
	if target := sentinel(goneErrs); target != nil {
		return response.ErrGone(target)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}
