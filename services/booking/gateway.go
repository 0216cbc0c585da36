package booking

import (
	"context"

	"github.com/uniride/uniride/internal/pkg/models"
)

// BookingGW forwards booking status changes to the external messaging
// gateway so push notifications can be delivered. Best-effort: a failed
// publish never rolls back the transition.
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/uniride/uniride/services/booking BookingGW
type BookingGW interface {
	PublishStatusChanged(ctx context.Context, event models.BookingStatusChanged) error
}
