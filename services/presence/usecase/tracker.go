package usecase

import (
	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

// Tracker issues the presence queries a rider can make against the realtime
// backend: following another subject's position and asking for nearby
// counterparties.
type Tracker struct {
	cfg    models.LocationConfig
	sender presence.Sender
}

func NewTracker(cfg models.LocationConfig, sender presence.Sender) *Tracker {
	return &Tracker{
		cfg:    cfg,
		sender: sender,
	}
}

// Track asks the backend to stream the target subject's position updates.
func (t *Tracker) Track(targetSubjectID string) error {
	env, err := models.NewEnvelope(constants.TypeSubscribe, models.SubscribeRequest{
		TargetSubjectID: targetSubjectID,
	})
	if err != nil {
		return err
	}
	return t.sender.Send(env)
}

// Untrack stops the stream for the target subject.
func (t *Tracker) Untrack(targetSubjectID string) error {
	env, err := models.NewEnvelope(constants.TypeUnsubscribe, models.SubscribeRequest{
		TargetSubjectID: targetSubjectID,
	})
	if err != nil {
		return err
	}
	return t.sender.Send(env)
}

// RequestNearby asks the backend for counterparties around the given origin.
// A non-positive radius falls back to the configured default.
func (t *Tracker) RequestNearby(lat, lng, radiusKm float64) error {
	if radiusKm <= 0 {
		radiusKm = t.cfg.DefaultRadiusKm
	}
	env, err := models.NewEnvelope(constants.TypeGetNearby, models.GetNearbyRequest{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radiusKm,
	})
	if err != nil {
		return err
	}
	return t.sender.Send(env)
}
