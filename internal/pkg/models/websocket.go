package models

import "encoding/json"

// Envelope is the tagged wire message exchanged with the coordination
// endpoint. Type discriminates the payload; unknown types are dropped by the
// session, never fatal.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into a tagged envelope.
func NewEnvelope(msgType string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// SubscribeRequest asks the endpoint to stream another subject's positions.
type SubscribeRequest struct {
	TargetSubjectID string `json:"target_subject_id"`
}

// GetNearbyRequest asks the endpoint for counterparties around a point.
type GetNearbyRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

// LocationConfirmed acknowledges a published position.
type LocationConfirmed struct {
	Status string `json:"status"`
}

// NearbyUsers carries the endpoint's ranked proximity answer.
type NearbyUsers struct {
	Users []NearbyResult `json:"users"`
}
