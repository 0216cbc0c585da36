package usecase

import (
	"sort"
	"time"

	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/internal/utils"
)

// ProximityIndex ranks live positions around a query point. Pure
// computation: every query recomputes from the candidate set it is handed.
type ProximityIndex struct {
	stalenessWindow  time.Duration
	geohashPrecision uint

	// now is swappable for deterministic staleness tests
	now func() time.Time
}

// NewProximityIndex creates a proximity index with the configured staleness
// window and geohash precision.
func NewProximityIndex(cfg models.LocationConfig) *ProximityIndex {
	return &ProximityIndex{
		stalenessWindow:  cfg.StalenessWindow,
		geohashPrecision: cfg.GeohashPrecision,
		now:              models.Now,
	}
}

// Nearby returns the candidates within radiusKm of origin, ranked by
// ascending great-circle distance. The radius bound is inclusive. Stale
// candidates and the origin subject itself are excluded. Ties are broken by
// subject ID so identical inputs always rank identically.
func (x *ProximityIndex) Nearby(origin models.Position, candidates []models.Position, radiusKm float64) []models.NearbyResult {
	now := x.now()
	originPoint := utils.GeoPointFromPosition(origin)

	// The 3x3 cell prefilter is lossless only while the radius fits inside
	// the shortest cell edge around the origin. Cell width shrinks toward
	// the poles, so the cutoff is measured at the origin's latitude; beyond
	// it every candidate is ranked directly.
	var cells map[string]struct{}
	if radiusKm <= utils.CellMinEdgeKm(origin.Latitude, origin.Longitude, x.geohashPrecision) {
		cells = make(map[string]struct{})
		for _, cell := range utils.CellAndNeighbors(origin.Latitude, origin.Longitude, x.geohashPrecision) {
			cells[cell] = struct{}{}
		}
	}

	results := make([]models.NearbyResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.SubjectID == origin.SubjectID {
			continue
		}
		if candidate.IsStale(now, x.stalenessWindow) {
			continue
		}
		if cells != nil {
			if _, ok := cells[utils.EncodePosition(candidate, x.geohashPrecision)]; !ok {
				continue
			}
		}

		distance := utils.CalculateDistance(originPoint, utils.GeoPointFromPosition(candidate))
		if distance > radiusKm {
			continue
		}

		results = append(results, models.NearbyResult{
			SubjectID:  candidate.SubjectID,
			Position:   candidate,
			DistanceKm: distance,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].SubjectID < results[j].SubjectID
	})

	return results
}
