package models

import "time"

// Position is an ephemeral location sample for one subject. Consumers must
// treat samples older than the configured staleness window as expired.
type Position struct {
	SubjectID  string    `json:"subject_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// IsStale reports whether the sample is older than the staleness window at
// the given reference time.
func (p Position) IsStale(now time.Time, window time.Duration) bool {
	return now.Sub(p.CapturedAt) > window
}

// NearbyResult is a ranked proximity hit. Derived on every query, never
// persisted.
type NearbyResult struct {
	SubjectID  string   `json:"subject_id"`
	Position   Position `json:"position"`
	DistanceKm float64  `json:"distance_km"`
}
