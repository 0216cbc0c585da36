// Package presence defines the contracts for position sampling, publishing
// and proximity ranking.
package presence

import (
	"context"
	"errors"

	"github.com/uniride/uniride/internal/pkg/models"
)

var (
	// ErrPermissionDenied is returned when the subject has not granted
	// location access
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrUnavailable is returned when no position fix can be acquired
	ErrUnavailable = errors.New("geolocation unavailable")
)

// GeoProvider is the narrow view of the external geolocation collaborator.
//go:generate mockgen -destination=mocks/mock_geo.go -package=mocks github.com/uniride/uniride/services/presence GeoProvider
type GeoProvider interface {
	// CheckPermission confirms the location capability is granted.
	CheckPermission(ctx context.Context) error
	// CurrentPosition acquires one position fix.
	CurrentPosition(ctx context.Context) (*models.Position, error)
}

// Sender is the session surface the publisher pushes envelopes through.
type Sender interface {
	Send(env models.Envelope) error
}
