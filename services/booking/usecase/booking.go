package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/booking"
)

const applyTimeout = 5 * time.Second

// errCASConflict signals that the store no longer held the status the
// transition was validated against. Internal to the retry loop.
var errCASConflict = errors.New("booking status changed under us")

type bookingUC struct {
	repo booking.BookingRepo
	gw   booking.BookingGW
	bus  *eventbus.Bus
}

// NewBookingUC creates a new booking usecase. The gateway may be nil when the
// process has no messaging backend configured.
func NewBookingUC(repo booking.BookingRepo, gw booking.BookingGW, bus *eventbus.Bus) booking.BookingUC {
	return &bookingUC{
		repo: repo,
		gw:   gw,
		bus:  bus,
	}
}

// Apply runs one transition through the booking state machine. Every check
// runs against freshly loaded state, and a lost compare-and-set is retried
// exactly once against a refresh before giving up.
func (uc *bookingUC) Apply(ctx context.Context, bookingID uuid.UUID, action models.BookingAction, actorID string) (models.BookingStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, applyTimeout)
	defer cancel()

	var next models.BookingStatus
	var bkg *models.Booking
	for attempt := 0; attempt < 2; attempt++ {
		var err error
		bkg, err = uc.repo.GetBooking(ctx, bookingID)
		if err != nil {
			return "", err
		}

		next, err = uc.transition(ctx, bkg, action, actorID)
		if errors.Is(err, errCASConflict) {
			continue
		}
		if err != nil {
			return "", err
		}

		uc.announce(ctx, bkg.Status, next, bkg.BookingID)
		return next, nil
	}
	return "", booking.ErrConcurrentModification
}

// transition validates the action against the loaded booking and attempts
// the compare-and-set. The seat re-check happens here, after the load, so an
// accept always sees current availability.
func (uc *bookingUC) transition(ctx context.Context, bkg *models.Booking, action models.BookingAction, actorID string) (models.BookingStatus, error) {
	next, err := nextStatus(bkg, action, actorID)
	if err != nil {
		return "", err
	}

	if action == models.BookingActionAccept {
		seats, err := uc.repo.GetRideAvailability(ctx, bkg.RideID)
		if err != nil {
			return "", err
		}
		if seats < bkg.SeatsRequested {
			return "", booking.ErrCapacityExceeded
		}
	}

	ok, err := uc.repo.CompareAndSetStatus(ctx, bkg.BookingID, bkg.Status, next)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errCASConflict
	}
	return next, nil
}

// nextStatus applies the authorization and legality rules of the state
// machine without touching any collaborator.
func nextStatus(bkg *models.Booking, action models.BookingAction, actorID string) (models.BookingStatus, error) {
	if bkg.Status.IsTerminal() {
		return "", booking.ErrInvalidTransition
	}

	switch action {
	case models.BookingActionAccept, models.BookingActionReject:
		if actorID != bkg.DriverID {
			return "", booking.ErrUnauthorized
		}
		if bkg.Status != models.BookingStatusPending {
			return "", booking.ErrInvalidTransition
		}
		if action == models.BookingActionAccept {
			return models.BookingStatusAccepted, nil
		}
		return models.BookingStatusRejected, nil
	case models.BookingActionCancel:
		if actorID != bkg.PassengerID && actorID != bkg.DriverID {
			return "", booking.ErrUnauthorized
		}
		if bkg.Status != models.BookingStatusPending {
			return "", booking.ErrInvalidTransition
		}
		return models.BookingStatusCancelled, nil
	default:
		return "", booking.ErrUnknownAction
	}
}

// announce publishes the status change once, locally on the bus and, when a
// gateway is wired, to the messaging backend. Gateway failures are logged
// and swallowed since the transition is already durable.
func (uc *bookingUC) announce(ctx context.Context, old, next models.BookingStatus, bookingID uuid.UUID) {
	event := models.BookingStatusChanged{
		BookingID: bookingID,
		OldStatus: old,
		NewStatus: next,
	}
	if uc.bus != nil {
		uc.bus.Publish(constants.EventBookingStatusChanged, event)
	}
	if uc.gw == nil {
		return
	}
	if err := uc.gw.PublishStatusChanged(ctx, event); err != nil {
		logger.Warn("Failed to publish booking status change",
			logger.String("booking_id", bookingID.String()),
			logger.String("new_status", string(next)),
			logger.Err(err))
	}
}
