package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/uniride/uniride/internal/pkg/models"
)

// BookingRepo is the narrow view of the durable-store collaborator that owns
// bookings and ride availability. The state machine never caches what it
// reads here beyond a single transition.
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/uniride/uniride/services/booking BookingRepo
type BookingRepo interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	GetRideAvailability(ctx context.Context, rideID uuid.UUID) (int, error)
	// CompareAndSetStatus atomically moves the booking from expected to next
	// and reports whether the store still held expected.
	CompareAndSetStatus(ctx context.Context, bookingID uuid.UUID, expected, next models.BookingStatus) (bool, error)
}
