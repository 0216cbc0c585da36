package usecase

import (
	"context"

	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

// Finder answers proximity queries from the local position cache, for use
// when the realtime backend is unreachable or a result is needed without a
// round trip.
type Finder struct {
	cfg   models.LocationConfig
	repo  presence.PresenceRepo
	index *ProximityIndex
}

func NewFinder(cfg models.LocationConfig, repo presence.PresenceRepo, index *ProximityIndex) *Finder {
	return &Finder{
		cfg:   cfg,
		repo:  repo,
		index: index,
	}
}

// NearbyFromCache ranks cached counterparty positions around the origin. A
// non-positive radius falls back to the configured default.
func (f *Finder) NearbyFromCache(ctx context.Context, origin models.Position, radiusKm float64) ([]models.NearbyResult, error) {
	if radiusKm <= 0 {
		radiusKm = f.cfg.DefaultRadiusKm
	}
	if f.repo == nil {
		return nil, nil
	}

	candidates, err := f.repo.ListPositions(ctx)
	if err != nil {
		return nil, err
	}
	return f.index.Nearby(origin, candidates, radiusKm), nil
}
