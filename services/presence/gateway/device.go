// Package gateway adapts the local device location sidecar to the
// GeoProvider contract.
package gateway

import (
	"context"
	"errors"
	"net/http"

	httpclient "github.com/uniride/uniride/internal/pkg/http"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

// DeviceGateway reads position fixes from the device location sidecar over
// its local HTTP API.
type DeviceGateway struct {
	client *httpclient.Client
}

func NewDeviceGateway(cfg models.LocationConfig) *DeviceGateway {
	return &DeviceGateway{
		client: httpclient.NewClient(cfg.DeviceURL, cfg.DeviceTimeout),
	}
}

// NewDeviceGatewayWithClient allows tests to inject a prepared client.
func NewDeviceGatewayWithClient(client *httpclient.Client) *DeviceGateway {
	return &DeviceGateway{client: client}
}

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// CheckPermission asks the sidecar whether location access is granted. A 403
// maps to ErrPermissionDenied, anything else unhealthy to ErrUnavailable.
func (g *DeviceGateway) CheckPermission(ctx context.Context) error {
	err := g.client.GetJSON(ctx, "/permission", nil)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusForbidden {
		return presence.ErrPermissionDenied
	}
	return presence.ErrUnavailable
}

// CurrentPosition acquires one fix from the sidecar.
func (g *DeviceGateway) CurrentPosition(ctx context.Context) (*models.Position, error) {
	var resp positionResponse
	if err := g.client.GetJSON(ctx, "/position", &resp); err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusForbidden {
			return nil, presence.ErrPermissionDenied
		}
		return nil, presence.ErrUnavailable
	}

	return &models.Position{
		Latitude:  resp.Latitude,
		Longitude: resp.Longitude,
		Address:   resp.Address,
	}, nil
}
