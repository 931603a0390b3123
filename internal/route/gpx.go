package route

import "encoding/xml"

type gpxDoc struct {
	XMLName   xml.Name      `xml:"gpx"`
	Version   string        `xml:"version,attr"`
	Creator   string        `xml:"creator,attr"`
	Namespace string        `xml:"xmlns,attr"`
	Waypoints []gpxWaypoint `xml:"wpt"`
	Track     gpxTrack      `xml:"trk"`
}

type gpxWaypoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	Name string  `xml:"name"`
	Desc string  `xml:"desc,omitempty"`
	Type string  `xml:"type"`
}

type gpxTrack struct {
	Name    string     `xml:"name"`
	Desc    string     `xml:"desc,omitempty"`
	Segment gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat float64 `xml:"lat,attr"`
	Lon float64 `xml:"lon,attr"`
}

// ToGPX renders one track with a single segment plus one wpt per waypoint.
// encoding/xml escapes all free text on the way out.
func ToGPX(r Route) (string, error) {
	doc := gpxDoc{
		Version:   "1.1",
		Creator:   "MotorMates",
		Namespace: "http://www.topografix.com/GPX/1/1",
		Track: gpxTrack{
			Name: r.Name,
			Desc: r.Description,
		},
	}
	for _, p := range r.Points {
		doc.Track.Segment.Points = append(doc.Track.Segment.Points, gpxPoint{Lat: p.Lat, Lon: p.Lng})
	}
	for _, w := range r.Waypoints {
		doc.Waypoints = append(doc.Waypoints, gpxWaypoint{
			Lat:  w.Point.Lat,
			Lon:  w.Point.Lng,
			Name: w.DisplayName(),
			Desc: w.Description,
			Type: string(w.Type),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}
