package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is permitted from the
// status. Rejected and cancelled bookings never leave that state.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

// BookingAction is a requested transition on a booking
type BookingAction string

const (
	BookingActionAccept BookingAction = "accept"
	BookingActionReject BookingAction = "reject"
	BookingActionCancel BookingAction = "cancel"
)

// Booking represents a seat reservation request on a ride. The durable store
// owns the authoritative record; this struct only carries the snapshot read
// for the current transition.
type Booking struct {
	BookingID      uuid.UUID     `json:"booking_id" db:"booking_id"`
	RideID         uuid.UUID     `json:"ride_id" db:"ride_id"`
	PassengerID    string        `json:"passenger_id" db:"passenger_id"`
	DriverID       string        `json:"driver_id" db:"driver_id"`
	SeatsRequested int           `json:"seats_requested" db:"seats_requested"`
	Status         BookingStatus `json:"status" db:"status"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// BookingStatusChanged is the domain event published after a successful
// transition.
type BookingStatusChanged struct {
	BookingID uuid.UUID     `json:"booking_id"`
	OldStatus BookingStatus `json:"old_status"`
	NewStatus BookingStatus `json:"new_status"`
}
