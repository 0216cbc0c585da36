package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/uniride/uniride/internal/pkg/models"
)

// GeoPoint represents a geographical point with latitude and longitude
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// EncodePosition converts a position to a geohash string
func EncodePosition(pos models.Position, precision uint) string {
	return geohash.EncodeWithPrecision(pos.Latitude, pos.Longitude, precision)
}

// CellAndNeighbors returns the geohash cell containing the point together
// with its eight neighbors. Anything inside the search radius of a point is
// guaranteed to fall in one of these cells as long as the cell edge length
// exceeds the radius.
func CellAndNeighbors(lat, lng float64, precision uint) []string {
	center := geohash.EncodeWithPrecision(lat, lng, precision)
	return append(geohash.Neighbors(center), center)
}

// CellMinEdgeKm returns the shortest edge, in kilometers, across the cell
// containing the point and its eight neighbors. Cell width along a parallel
// shrinks with the cosine of latitude, so the bound depends on where the
// point is, not just on the precision.
func CellMinEdgeKm(lat, lng float64, precision uint) float64 {
	minEdge := math.MaxFloat64
	for _, cell := range CellAndNeighbors(lat, lng, precision) {
		box := geohash.BoundingBox(cell)

		height := CalculateDistance(
			GeoPoint{Latitude: box.MinLat, Longitude: box.MinLng},
			GeoPoint{Latitude: box.MaxLat, Longitude: box.MinLng},
		)
		// The edge along the parallel closer to the pole is the shorter one.
		edgeLat := box.MinLat
		if math.Abs(box.MaxLat) > math.Abs(edgeLat) {
			edgeLat = box.MaxLat
		}
		width := CalculateDistance(
			GeoPoint{Latitude: edgeLat, Longitude: box.MinLng},
			GeoPoint{Latitude: edgeLat, Longitude: box.MaxLng},
		)

		minEdge = math.Min(minEdge, math.Min(height, width))
	}
	return minEdge
}

// CalculateDistance calculates the distance between two points in kilometers using the Haversine formula
func CalculateDistance(point1, point2 GeoPoint) float64 {
	// Earth's radius in kilometers
	const earthRadius = 6371.0

	// Convert latitude and longitude from degrees to radians
	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	// Haversine formula
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// GeoPointFromPosition converts a Position to a GeoPoint
func GeoPointFromPosition(pos models.Position) GeoPoint {
	return GeoPoint{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	}
}
