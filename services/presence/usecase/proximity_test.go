package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/internal/utils"
)

var proximityConfig = models.LocationConfig{
	StalenessWindow:  120 * time.Second,
	GeohashPrecision: 5,
}

func newTestIndex(now time.Time) *ProximityIndex {
	index := NewProximityIndex(proximityConfig)
	index.now = func() time.Time { return now }
	return index
}

func position(subjectID string, lat, lng float64, capturedAt time.Time) models.Position {
	return models.Position{
		SubjectID:  subjectID,
		Latitude:   lat,
		Longitude:  lng,
		CapturedAt: capturedAt,
	}
}

func TestNearby_RanksByAscendingDistance(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	candidates := []models.Position{
		position("far", -6.2200, 106.8600, now),
		position("near", -6.2010, 106.8410, now),
		position("mid", -6.2100, 106.8500, now),
	}

	results := index.Nearby(origin, candidates, 5.0)

	require.Len(t, results, 3)
	assert.Equal(t, "near", results[0].SubjectID)
	assert.Equal(t, "mid", results[1].SubjectID)
	assert.Equal(t, "far", results[2].SubjectID)
	assert.True(t, results[0].DistanceKm <= results[1].DistanceKm)
	assert.True(t, results[1].DistanceKm <= results[2].DistanceKm)
}

func TestNearby_RadiusBoundIsInclusive(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)
	boundary := position("edge", -6.2100, 106.8500, now)

	// Use the exact great-circle distance as the radius: the candidate sits
	// exactly on the boundary and must be included.
	radius := utils.CalculateDistance(
		utils.GeoPointFromPosition(origin),
		utils.GeoPointFromPosition(boundary),
	)

	results := index.Nearby(origin, []models.Position{boundary}, radius)

	require.Len(t, results, 1)
	assert.Equal(t, "edge", results[0].SubjectID)
}

func TestNearby_ExcludesCandidatesBeyondRadius(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	candidates := []models.Position{
		position("near", -6.2010, 106.8410, now),
		position("too-far", -6.2500, 106.9000, now),
	}

	results := index.Nearby(origin, candidates, 1.0)

	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].SubjectID)
}

func TestNearby_ExcludesStalePositionsEvenWithinRadius(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	candidates := []models.Position{
		position("fresh", -6.2010, 106.8410, now.Add(-30*time.Second)),
		position("stale", -6.2010, 106.8410, now.Add(-121*time.Second)),
	}

	results := index.Nearby(origin, candidates, 2.0)

	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].SubjectID)
}

func TestNearby_ExcludesTheOriginSubject(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	results := index.Nearby(origin, []models.Position{
		position("me", -6.2000, 106.8400, now),
		position("other", -6.2010, 106.8410, now),
	}, 2.0)

	require.Len(t, results, 1)
	assert.Equal(t, "other", results[0].SubjectID)
}

func TestNearby_DeterministicOrderWithDistanceTies(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	// Same coordinates, so identical distance; order must fall back to
	// subject ID.
	candidates := []models.Position{
		position("bravo", -6.2010, 106.8410, now),
		position("alpha", -6.2010, 106.8410, now),
		position("charlie", -6.2010, 106.8410, now),
	}

	first := index.Nearby(origin, candidates, 2.0)
	second := index.Nearby(origin, candidates, 2.0)

	require.Len(t, first, 3)
	assert.Equal(t, "alpha", first[0].SubjectID)
	assert.Equal(t, "bravo", first[1].SubjectID)
	assert.Equal(t, "charlie", first[2].SubjectID)
	assert.Equal(t, first, second)
}

func TestNearby_PrefilterKeepsNeighborCellCandidates(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	// ~3.9km away: within radius but likely in a neighboring geohash cell,
	// which the prefilter must still cover.
	edge := position("edge", -6.2350, 106.8400, now)

	results := index.Nearby(origin, []models.Position{edge}, 4.0)

	require.Len(t, results, 1)
	assert.Equal(t, "edge", results[0].SubjectID)
}

func TestNearby_HighLatitudeKeepsCandidatesInsideRadius(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)

	// At 50N a precision-5 cell is only ~3.1km wide. The origin sits just
	// inside the east edge of its cell, so a candidate ~3.5km due east lands
	// two cells over; a 4km query must still return it.
	origin := position("me", 50.0000, 14.4140, now)
	east := position("east", 50.0000, 14.4629, now)

	distance := utils.CalculateDistance(
		utils.GeoPointFromPosition(origin),
		utils.GeoPointFromPosition(east),
	)
	require.Greater(t, distance, 3.0)
	require.Less(t, distance, 4.0)

	results := index.Nearby(origin, []models.Position{east}, 4.0)

	require.Len(t, results, 1)
	assert.Equal(t, "east", results[0].SubjectID)
	assert.InDelta(t, distance, results[0].DistanceKm, 1e-9)
}

func TestNearby_LargeRadiusSkipsPrefilter(t *testing.T) {
	now := time.Now()
	index := newTestIndex(now)
	origin := position("me", -6.2000, 106.8400, now)

	// ~11km away, far outside the 3x3 cell neighborhood at precision 5.
	distant := position("distant", -6.3000, 106.8400, now)

	results := index.Nearby(origin, []models.Position{distant}, 15.0)

	require.Len(t, results, 1)
	assert.Equal(t, "distant", results[0].SubjectID)
}

func TestNearby_EmptyCandidates(t *testing.T) {
	index := newTestIndex(time.Now())

	results := index.Nearby(position("me", -6.2, 106.84, time.Now()), nil, 2.0)

	assert.Empty(t, results)
}
