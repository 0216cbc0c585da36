package constants

// In-process bus event types
const (
	// Session lifecycle events
	EventConnected       = "connected"
	EventDisconnected    = "disconnected"
	EventReconnectFailed = "reconnect_failed"
	EventSessionError    = "error"

	// Presence events
	EventLocationUpdate    = "location_update"
	EventLocationConfirmed = "location_confirmed"
	EventNearbyUsers       = "nearby_users"

	// Booking events
	EventBookingStatusChanged = "booking_status_changed"
)

// Wire type discriminators recognized on the coordination channel.
const (
	// Outbound
	TypeLocationUpdate = "location_update"
	TypeSubscribe      = "subscribe"
	TypeUnsubscribe    = "unsubscribe"
	TypeGetNearby      = "get_nearby"

	// Inbound
	TypeLocationConfirmed = "location_confirmed"
	TypeNearbyUsers       = "nearby_users"
)
