package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/uniride/uniride/internal/pkg/models"
)

// ErrBookingNotFound is returned when no booking exists for the given ID.
var ErrBookingNotFound = errors.New("booking not found")

// ErrRideNotFound is returned when availability is requested for an unknown ride.
var ErrRideNotFound = errors.New("ride not found")

// BookingRepository persists bookings in PostgreSQL.
type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetBooking loads a booking by ID
func (r *BookingRepository) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT booking_id, ride_id, passenger_id, driver_id, seats_requested, status, created_at
		FROM bookings
		WHERE booking_id = $1
	`

	var bkg models.Booking
	err := r.db.GetContext(ctx, &bkg, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &bkg, nil
}

// GetRideAvailability returns the number of seats still open on the ride,
// counting accepted bookings against the ride's capacity.
func (r *BookingRepository) GetRideAvailability(ctx context.Context, rideID uuid.UUID) (int, error) {
	query := `
		SELECT r.total_seats - COALESCE(SUM(b.seats_requested) FILTER (WHERE b.status = 'accepted'), 0)
		FROM rides r
		LEFT JOIN bookings b ON b.ride_id = r.ride_id
		WHERE r.ride_id = $1
		GROUP BY r.total_seats
	`

	var available int
	err := r.db.GetContext(ctx, &available, query, rideID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRideNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get ride availability: %w", err)
	}
	return available, nil
}

// CompareAndSetStatus moves the booking from expected to next only if the
// stored status still equals expected. Returns false when another writer got
// there first.
func (r *BookingRepository) CompareAndSetStatus(ctx context.Context, bookingID uuid.UUID, expected, next models.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE booking_id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, next, bookingID, expected)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check updated rows: %w", err)
	}
	return affected == 1, nil
}
