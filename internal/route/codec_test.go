package route

import (
	"reflect"
	"testing"
)

func TestPointsRoundTrip(t *testing.T) {
	points := []Point{{Lat: 37.0, Lng: -122.0}, {Lat: 37.1, Lng: -122.1}}
	decoded := DecodePoints(EncodePoints(points))
	if !reflect.DeepEqual(decoded, points) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestEncodePointsNil(t *testing.T) {
	if string(EncodePoints(nil)) != "[]" {
		t.Fatalf("nil must encode to empty array")
	}
}

func TestDecodePointsMalformed(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(""), []byte("not json"), []byte(`{"lat":1}`), []byte("null")} {
		points := DecodePoints(data)
		if points == nil || len(points) != 0 {
			t.Fatalf("expected empty slice for %q, got %+v", data, points)
		}
	}
}

func TestWaypointsRoundTrip(t *testing.T) {
	waypoints := []Waypoint{
		{ID: "w1", Name: "Vista", Type: WaypointScenic, Point: Point{Lat: 37.0, Lng: -122.0}},
		{ID: "w2", Name: "Fuel", Description: "last stop", Type: WaypointGas, Point: Point{Lat: 37.1, Lng: -122.1}},
	}
	decoded := DecodeWaypoints(EncodeWaypoints(waypoints))
	if !reflect.DeepEqual(decoded, waypoints) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeWaypointsUnknownType(t *testing.T) {
	data := []byte(`[{"id":"w1","name":"x","type":"teleporter","point":{"lat":1,"lng":2}}]`)
	waypoints := DecodeWaypoints(data)
	if len(waypoints) != 1 {
		t.Fatalf("expected one waypoint")
	}
	if waypoints[0].Type != WaypointCustom {
		t.Fatalf("unknown type must fall back to custom, got %s", waypoints[0].Type)
	}
}

func TestDecodeWaypointsMalformed(t *testing.T) {
	waypoints := DecodeWaypoints([]byte("{broken"))
	if waypoints == nil || len(waypoints) != 0 {
		t.Fatalf("expected empty slice")
	}
}
