package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// San Francisco (37.7749, -122.4194) to Los Angeles (34.0522, -118.2437) ~ 540-570 km
	d := HaversineKm(37.7749, -122.4194, 34.0522, -118.2437)
	if d < 520 || d > 590 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmZero(t *testing.T) {
	if d := HaversineKm(37.0, -122.0, 37.0, -122.0); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestPathDistanceKm(t *testing.T) {
	points := []LatLng{
		{Lat: 37.0, Lng: -122.0},
		{Lat: 37.1, Lng: -122.1},
		{Lat: 37.2, Lng: -122.2},
	}
	want := HaversineKm(37.0, -122.0, 37.1, -122.1) + HaversineKm(37.1, -122.1, 37.2, -122.2)
	if got := PathDistanceKm(points); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPathDistanceKmShortInputs(t *testing.T) {
	if d := PathDistanceKm(nil); d != 0 {
		t.Fatalf("expected 0 for empty path, got %v", d)
	}
	if d := PathDistanceKm([]LatLng{{Lat: 1, Lng: 2}}); d != 0 {
		t.Fatalf("expected 0 for single point, got %v", d)
	}
}

func TestPathDistanceKmMonotonic(t *testing.T) {
	points := []LatLng{{Lat: 37.0, Lng: -122.0}, {Lat: 37.1, Lng: -122.1}}
	before := PathDistanceKm(points)
	after := PathDistanceKm(append(points, LatLng{Lat: 37.2, Lng: -122.0}))
	if after < before {
		t.Fatalf("appending a point decreased distance: %v -> %v", before, after)
	}
}

func TestBoundingRegionEmpty(t *testing.T) {
	if _, ok := BoundingRegion(nil); ok {
		t.Fatalf("expected no region for empty points")
	}
}

func TestBoundingRegionFloor(t *testing.T) {
	points := []LatLng{
		{Lat: 37.0, Lng: -122.0},
		{Lat: 37.0, Lng: -122.0},
	}
	region, ok := BoundingRegion(points)
	if !ok {
		t.Fatalf("expected region")
	}
	want := 0.01 * 1.1
	if math.Abs(region.SpanLat-want) > 1e-12 || math.Abs(region.SpanLng-want) > 1e-12 {
		t.Fatalf("expected span floor %v, got %v / %v", want, region.SpanLat, region.SpanLng)
	}
	if region.CenterLat != 37.0 || region.CenterLng != -122.0 {
		t.Fatalf("unexpected center: %v, %v", region.CenterLat, region.CenterLng)
	}
}

func TestBoundingRegionSpread(t *testing.T) {
	points := []LatLng{
		{Lat: 36.0, Lng: -123.0},
		{Lat: 38.0, Lng: -121.0},
	}
	region, ok := BoundingRegion(points)
	if !ok {
		t.Fatalf("expected region")
	}
	if region.CenterLat != 37.0 || region.CenterLng != -122.0 {
		t.Fatalf("unexpected center: %v, %v", region.CenterLat, region.CenterLng)
	}
	if math.Abs(region.SpanLat-2.2) > 1e-12 || math.Abs(region.SpanLng-2.2) > 1e-12 {
		t.Fatalf("unexpected span: %v / %v", region.SpanLat, region.SpanLng)
	}
}
