// Package gateway forwards booking events to the messaging backend.
package gateway

import (
	"context"

	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/models"
	natspkg "github.com/uniride/uniride/internal/pkg/nats"
)

// BookingGateway publishes booking status changes over NATS.
type BookingGateway struct {
	natsClient *natspkg.Client
}

func NewBookingGateway(natsClient *natspkg.Client) *BookingGateway {
	return &BookingGateway{natsClient: natsClient}
}

// PublishStatusChanged emits one booking.status.changed message per
// transition.
func (g *BookingGateway) PublishStatusChanged(ctx context.Context, event models.BookingStatusChanged) error {
	return g.natsClient.PublishJSON(constants.SubjectBookingStatusChanged, event)
}
