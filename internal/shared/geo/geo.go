package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates given in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

type LatLng struct {
	Lat float64
	Lng float64
}

// PathDistanceKm sums the great-circle distance over consecutive point pairs.
// Fewer than two points yields 0.
func PathDistanceKm(points []LatLng) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}
	return total
}

// Region is a map viewport: center plus span per axis, in decimal degrees.
type Region struct {
	CenterLat float64
	CenterLng float64
	SpanLat   float64
	SpanLng   float64
}

// minSpan keeps a single-point or straight-line route from producing a
// degenerate zero-size viewport.
const minSpan = 0.01

// BoundingRegion computes a padded bounding box around the points. The span
// on each axis is max(extent, minSpan) scaled by 1.1. The second return is
// false for an empty point set.
func BoundingRegion(points []LatLng) (Region, bool) {
	if len(points) == 0 {
		return Region{}, false
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
	}

	return Region{
		CenterLat: (minLat + maxLat) / 2,
		CenterLng: (minLng + maxLng) / 2,
		SpanLat:   math.Max(maxLat-minLat, minSpan) * 1.1,
		SpanLng:   math.Max(maxLng-minLng, minSpan) * 1.1,
	}, true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
