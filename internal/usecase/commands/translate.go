package commands

import (
	"errors"
	"time"

	"room-contention/internal/domain/order"
	"room-contention/internal/domain/waitlist"
	"room-contention/internal/infra"
	"room-contention/internal/pkg/errs"
)

// notFound maps a repository NOT_FOUND to RESOURCE_NOT_FOUND and passes other errors through.
func notFound(err error, msg string) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.WrapKind(err, errs.KindResourceNotFound, msg)
	}
	return err
}

func validationErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, order.ErrInvalidGuestCount), errors.Is(err, waitlist.ErrInvalidGuestCount):
		return errs.WrapKind(err, errs.KindValidation, "guest count must be positive")
	default:
		return errs.WrapKind(err, errs.KindValidation, err.Error())
	}
}

// confirmRejection explains why a NOTIFIED-only transition did not apply to e.
func confirmRejection(e *waitlist.Entry, now time.Time) error {
	if e.Status() == waitlist.StatusExpired || (e.Status() == waitlist.StatusNotified && e.IsOverdue(now)) {
		return errs.E(errs.KindEntryExpired, "notification window has passed").
			WithEntry(e.ID()).WithRoom(e.RoomID())
	}
	return errs.E(errs.KindInvalidTransition, "entry is "+e.Status().String()+", expected NOTIFIED").
		WithEntry(e.ID()).WithRoom(e.RoomID())
}
