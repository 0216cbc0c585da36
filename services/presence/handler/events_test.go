package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/models"
)

type recordingRepo struct {
	mu        sync.Mutex
	positions []models.Position
}

func (r *recordingRepo) UpsertPosition(ctx context.Context, pos models.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = append(r.positions, pos)
	return nil
}

func (r *recordingRepo) ListPositions(ctx context.Context) ([]models.Position, error) {
	return nil, nil
}

func (r *recordingRepo) RemovePosition(ctx context.Context, subjectID string) error {
	return nil
}

func TestEventHandler_CachesInboundPositions(t *testing.T) {
	bus := eventbus.New()
	repo := &recordingRepo{}
	h := NewEventHandler(bus, repo)
	h.Register()

	pos := models.Position{
		SubjectID:  "driver-3",
		Latitude:   -6.2088,
		Longitude:  106.8456,
		CapturedAt: time.Now().UTC(),
	}
	bus.Publish(constants.EventLocationUpdate, pos)

	require.Len(t, repo.positions, 1)
	assert.Equal(t, "driver-3", repo.positions[0].SubjectID)
}

func TestEventHandler_IgnoresAnonymousPositions(t *testing.T) {
	bus := eventbus.New()
	repo := &recordingRepo{}
	h := NewEventHandler(bus, repo)
	h.Register()

	bus.Publish(constants.EventLocationUpdate, models.Position{Latitude: 1, Longitude: 2})

	assert.Empty(t, repo.positions)
}

func TestEventHandler_UnregisterStopsDelivery(t *testing.T) {
	bus := eventbus.New()
	repo := &recordingRepo{}
	h := NewEventHandler(bus, repo)
	h.Register()
	h.Unregister()

	bus.Publish(constants.EventLocationUpdate, models.Position{SubjectID: "driver-3"})

	assert.Empty(t, repo.positions)
}

func TestEventHandler_WrongPayloadTypeIsDropped(t *testing.T) {
	bus := eventbus.New()
	repo := &recordingRepo{}
	h := NewEventHandler(bus, repo)
	h.Register()

	assert.NotPanics(t, func() {
		bus.Publish(constants.EventLocationUpdate, "not a position")
	})
	assert.Empty(t, repo.positions)
}
