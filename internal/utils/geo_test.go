package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uniride/uniride/internal/pkg/models"
)

func TestCalculateDistance_KnownPoints(t *testing.T) {
	// Monas to Kota Tua, Jakarta: roughly 3.5 km apart.
	monas := GeoPoint{Latitude: -6.1754, Longitude: 106.8272}
	kotaTua := GeoPoint{Latitude: -6.1352, Longitude: 106.8133}

	distance := CalculateDistance(monas, kotaTua)

	assert.InDelta(t, 4.7, distance, 0.5)
}

func TestCalculateDistance_SamePointIsZero(t *testing.T) {
	point := GeoPoint{Latitude: -6.2088, Longitude: 106.8456}

	assert.Zero(t, CalculateDistance(point, point))
}

func TestCalculateDistance_Symmetric(t *testing.T) {
	a := GeoPoint{Latitude: -6.2088, Longitude: 106.8456}
	b := GeoPoint{Latitude: -6.1754, Longitude: 106.8272}

	assert.InDelta(t, CalculateDistance(a, b), CalculateDistance(b, a), 1e-12)
}

func TestEncodePosition_PrecisionControlsLength(t *testing.T) {
	pos := models.Position{Latitude: -6.2088, Longitude: 106.8456}

	assert.Len(t, EncodePosition(pos, 5), 5)
	assert.Len(t, EncodePosition(pos, 7), 7)
}

func TestCellAndNeighbors_ContainsCenterAndEightNeighbors(t *testing.T) {
	cells := CellAndNeighbors(-6.2088, 106.8456, 5)

	assert.Len(t, cells, 9)
	assert.Contains(t, cells, EncodePosition(models.Position{Latitude: -6.2088, Longitude: 106.8456}, 5))
}
