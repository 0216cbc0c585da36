// Package handler consumes realtime bus events on behalf of the presence
// service.
package handler

import (
	"context"
	"time"

	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

const upsertTimeout = 2 * time.Second

// EventHandler mirrors inbound counterparty positions into the local cache
// and logs session lifecycle changes.
type EventHandler struct {
	bus  *eventbus.Bus
	repo presence.PresenceRepo

	subs []eventbus.Subscription
}

func NewEventHandler(bus *eventbus.Bus, repo presence.PresenceRepo) *EventHandler {
	return &EventHandler{
		bus:  bus,
		repo: repo,
	}
}

// Register subscribes the handler to the bus events it consumes.
func (h *EventHandler) Register() {
	h.subs = append(h.subs,
		h.bus.Subscribe(constants.EventLocationUpdate, h.handleLocationUpdate),
		h.bus.Subscribe(constants.EventNearbyUsers, h.handleNearbyUsers),
		h.bus.Subscribe(constants.EventConnected, h.handleConnected),
		h.bus.Subscribe(constants.EventDisconnected, h.handleDisconnected),
		h.bus.Subscribe(constants.EventReconnectFailed, h.handleReconnectFailed),
	)
}

// Unregister removes every subscription taken in Register.
func (h *EventHandler) Unregister() {
	for _, sub := range h.subs {
		h.bus.Unsubscribe(sub)
	}
	h.subs = nil
}

func (h *EventHandler) handleLocationUpdate(payload interface{}) {
	pos, ok := payload.(models.Position)
	if !ok {
		return
	}
	if h.repo == nil || pos.SubjectID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()
	if err := h.repo.UpsertPosition(ctx, pos); err != nil {
		logger.Warn("Failed to cache counterparty position",
			logger.String("subject_id", pos.SubjectID),
			logger.Err(err))
	}
}

func (h *EventHandler) handleNearbyUsers(payload interface{}) {
	nearby, ok := payload.(models.NearbyUsers)
	if !ok {
		return
	}
	logger.Debug("Nearby users received", logger.Int("count", len(nearby.Users)))
}

func (h *EventHandler) handleConnected(payload interface{}) {
	logger.Info("Realtime session connected")
}

func (h *EventHandler) handleDisconnected(payload interface{}) {
	logger.Info("Realtime session disconnected")
}

func (h *EventHandler) handleReconnectFailed(payload interface{}) {
	logger.Error("Realtime session gave up reconnecting")
}
