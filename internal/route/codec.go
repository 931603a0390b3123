package route

import "encoding/json"

// The codec is deliberately forgiving: encode never fails and decode returns
// an empty slice for anything it cannot parse. Locally cached geometry can
// predate a schema change, and downstream code assumes decode never errors.

func EncodePoints(points []Point) []byte {
	if points == nil {
		points = []Point{}
	}
	data, _ := json.Marshal(points)
	return data
}

func DecodePoints(data []byte) []Point {
	var points []Point
	if err := json.Unmarshal(data, &points); err != nil || points == nil {
		return []Point{}
	}
	return points
}

type wireWaypoint struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Point       Point  `json:"point"`
}

func EncodeWaypoints(waypoints []Waypoint) []byte {
	wire := make([]wireWaypoint, 0, len(waypoints))
	for _, w := range waypoints {
		wire = append(wire, wireWaypoint{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			Type:        string(w.Type),
			Point:       w.Point,
		})
	}
	data, _ := json.Marshal(wire)
	return data
}

func DecodeWaypoints(data []byte) []Waypoint {
	var wire []wireWaypoint
	if err := json.Unmarshal(data, &wire); err != nil || wire == nil {
		return []Waypoint{}
	}
	waypoints := make([]Waypoint, 0, len(wire))
	for _, w := range wire {
		waypoints = append(waypoints, Waypoint{
			ID:          w.ID,
			Name:        w.Name,
			Description: w.Description,
			Type:        ParseWaypointType(w.Type),
			Point:       w.Point,
		})
	}
	return waypoints
}
