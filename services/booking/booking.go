// Package booking defines the contracts for the booking state machine: who
// may move a seat reservation between states, and the collaborators the
// transitions are checked and persisted against.
package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/uniride/uniride/internal/pkg/models"
)

var (
	// ErrInvalidTransition is returned when the requested action is not
	// legal from the booking's current status
	ErrInvalidTransition = errors.New("invalid booking transition")
	// ErrUnauthorized is returned when the actor may not apply the action
	ErrUnauthorized = errors.New("actor not authorized for booking action")
	// ErrCapacityExceeded is returned when the ride no longer has enough
	// seats for the booking
	ErrCapacityExceeded = errors.New("ride capacity exceeded")
	// ErrConcurrentModification is returned when another actor won the race
	// for the same booking and the retry could not settle it
	ErrConcurrentModification = errors.New("booking modified concurrently")
	// ErrUnknownAction is returned for actions outside accept/reject/cancel
	ErrUnknownAction = errors.New("unknown booking action")
)

// BookingUC defines the interface for booking transitions
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/uniride/uniride/services/booking BookingUC
type BookingUC interface {
	// Apply validates and persists one state transition, returning the new
	// status on success.
	Apply(ctx context.Context, bookingID uuid.UUID, action models.BookingAction, actorID string) (models.BookingStatus, error)
}
