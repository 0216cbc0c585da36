package constants

// NATS Subjects
const (
	// Booking events consumed by the notification gateway
	SubjectBookingStatusChanged = "booking.status.changed"
)
