package route

import (
	"errors"
	"time"

	"backend-motormates/internal/shared/geo"

	"github.com/google/uuid"
)

// ErrNotSynced is returned when an operation needs a remote record id that
// has not been assigned yet. The caller must sync first.
var ErrNotSynced = errors.New("route has no remote record yet")

// New creates a route with empty geometry, zero derived stats and a dirty
// sync state awaiting its first upload.
func New(ownerID, name, description string) *Route {
	now := time.Now()
	return &Route{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         name,
		Description:  description,
		Difficulty:   DifficultyModerate,
		Season:       SeasonAny,
		Category:     CategoryScenic,
		Points:       []Point{},
		Waypoints:    []Waypoint{},
		CreatedAt:    now,
		LastModified: now,
		Sync:         SyncState{Dirty: true, Version: 1},
	}
}

// touch applies the bookkeeping every mutation shares: timestamp, dirty flag
// and version bump.
func (r *Route) touch(now time.Time) {
	r.LastModified = now
	r.Sync.Dirty = true
	r.Sync.Version++
}

// UpdateGeometry replaces the path and waypoints and recomputes the derived
// statistics in the same step. Distance and duration are never set
// independently of the geometry they describe.
func (r *Route) UpdateGeometry(points []Point, waypoints []Waypoint) {
	if points == nil {
		points = []Point{}
	}
	if waypoints == nil {
		waypoints = []Waypoint{}
	}
	r.Points = points
	r.Waypoints = waypoints
	r.DistanceKm = geo.PathDistanceKm(latLngs(points))
	// 60 minutes per kilometer is the estimate the clients have always
	// shipped with; keep it until product says otherwise.
	r.EstimatedDurationMin = r.DistanceKm * 60
	r.touch(time.Now())
}

// AddPhoto appends a photo and claims ownership of it. The photo keeps its
// own sync state; the route is marked dirty as well because its child list
// changed.
func (r *Route) AddPhoto(p Photo) Photo {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.RouteID = r.ID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Sync.Version == 0 {
		p.Sync = SyncState{Dirty: true, Version: 1}
	}
	r.Photos = append(r.Photos, p)
	r.touch(time.Now())
	return p
}

func (r *Route) AddLandmark(l Landmark) Landmark {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.RouteID = r.ID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	if l.Sync.Version == 0 {
		l.Sync = SyncState{Dirty: true, Version: 1}
	}
	r.Landmarks = append(r.Landmarks, l)
	r.touch(time.Now())
	return l
}

// MarkCompleted counts a finished drive. No upper bound on the counter.
func (r *Route) MarkCompleted() {
	now := time.Now()
	r.CompletedCount++
	r.LastCompleted = now
	r.touch(now)
}

// SetRating clamps to the 0..5 personal rating scale.
func (r *Route) SetRating(rating int) {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	r.Rating = rating
	r.touch(time.Now())
}

// EnsureShareID assigns an opaque share identifier once. Repeat calls return
// the existing identifier.
func (r *Route) EnsureShareID() string {
	if r.ShareID == "" {
		r.ShareID = uuid.NewString()
		r.touch(time.Now())
	}
	r.IsShared = true
	return r.ShareID
}

// Region is the map viewport covering the route's path.
func (r *Route) Region() (geo.Region, bool) {
	return geo.BoundingRegion(latLngs(r.Points))
}

func latLngs(points []Point) []geo.LatLng {
	out := make([]geo.LatLng, len(points))
	for i, p := range points {
		out[i] = geo.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return out
}
