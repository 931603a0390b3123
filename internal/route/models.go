package route

import "time"

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
	DifficultyExpert      Difficulty = "expert"
)

// ParseDifficulty falls back to moderate for unknown input.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging, DifficultyExpert:
		return Difficulty(s)
	}
	return DifficultyModerate
}

type Season string

const (
	SeasonAny    Season = "any"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

func ParseSeason(s string) Season {
	switch Season(s) {
	case SeasonAny, SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return Season(s)
	}
	return SeasonAny
}

type Category string

const (
	CategoryScenic      Category = "scenic"
	CategoryCoastal     Category = "coastal"
	CategoryMountain    Category = "mountain"
	CategoryCanyon      Category = "canyon"
	CategoryDesert      Category = "desert"
	CategoryForest      Category = "forest"
	CategoryUrban       Category = "urban"
	CategoryCountryside Category = "countryside"
	CategoryTrackDay    Category = "track_day"
	CategoryRoadTrip    Category = "road_trip"
)

func ParseCategory(s string) Category {
	switch Category(s) {
	case CategoryScenic, CategoryCoastal, CategoryMountain, CategoryCanyon,
		CategoryDesert, CategoryForest, CategoryUrban, CategoryCountryside,
		CategoryTrackDay, CategoryRoadTrip:
		return Category(s)
	}
	return CategoryScenic
}

type WaypointType string

const (
	WaypointStart  WaypointType = "start"
	WaypointEnd    WaypointType = "end"
	WaypointStop   WaypointType = "stop"
	WaypointGas    WaypointType = "gas"
	WaypointFood   WaypointType = "food"
	WaypointScenic WaypointType = "scenic"
	WaypointPhoto  WaypointType = "photo"
	WaypointCustom WaypointType = "custom"
)

// ParseWaypointType falls back to custom, matching the forgiving decode
// contract for data that predates a schema change.
func ParseWaypointType(s string) WaypointType {
	switch WaypointType(s) {
	case WaypointStart, WaypointEnd, WaypointStop, WaypointGas,
		WaypointFood, WaypointScenic, WaypointPhoto, WaypointCustom:
		return WaypointType(s)
	}
	return WaypointCustom
}

// Label is the display fallback for waypoints without a name.
func (t WaypointType) Label() string {
	switch t {
	case WaypointStart:
		return "Start"
	case WaypointEnd:
		return "End"
	case WaypointStop:
		return "Stop"
	case WaypointGas:
		return "Gas"
	case WaypointFood:
		return "Food"
	case WaypointScenic:
		return "Scenic"
	case WaypointPhoto:
		return "Photo"
	default:
		return "Custom"
	}
}

type LandmarkType string

const (
	LandmarkViewpoint  LandmarkType = "viewpoint"
	LandmarkRestaurant LandmarkType = "restaurant"
	LandmarkGasStation LandmarkType = "gas_station"
	LandmarkParking    LandmarkType = "parking"
	LandmarkHotel      LandmarkType = "hotel"
	LandmarkHistoric   LandmarkType = "historic"
	LandmarkNatural    LandmarkType = "natural"
	LandmarkOther      LandmarkType = "other"
)

func ParseLandmarkType(s string) LandmarkType {
	switch LandmarkType(s) {
	case LandmarkViewpoint, LandmarkRestaurant, LandmarkGasStation, LandmarkParking,
		LandmarkHotel, LandmarkHistoric, LandmarkNatural, LandmarkOther:
		return LandmarkType(s)
	}
	return LandmarkOther
}

// SyncState records whether local state has diverged from the last known
// remote snapshot. RemoteID is assigned once on first successful upload and
// reused for updates. Version counts mutations so a confirm that raced with
// a newer local edit can be detected and ignored.
type SyncState struct {
	RemoteID string `json:"remote_id,omitempty"`
	Dirty    bool   `json:"dirty"`
	Version  int64  `json:"version"`
}

// Waypoint is a named, typed point of interest owned by its parent route.
// It is independent of the path geometry and has no lifecycle of its own.
type Waypoint struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        WaypointType `json:"type"`
	Point       Point        `json:"point"`
}

// DisplayName falls back to the type label when the waypoint has no name.
func (w Waypoint) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.Type.Label()
}

type Photo struct {
	ID         string    `json:"id"`
	RouteID    string    `json:"route_id"`
	FileName   string    `json:"file_name"`
	Caption    string    `json:"caption"`
	Point      *Point    `json:"point,omitempty"`
	IsKey      bool      `json:"is_key"`
	Position   int       `json:"position"`
	FileStored bool      `json:"file_stored"`
	CapturedAt time.Time `json:"captured_at"`
	CreatedAt  time.Time `json:"created_at"`
	Sync       SyncState `json:"sync"`
}

type Landmark struct {
	ID          string       `json:"id"`
	RouteID     string       `json:"route_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        LandmarkType `json:"type"`
	Point       Point        `json:"point"`
	CreatedAt   time.Time    `json:"created_at"`
	Sync        SyncState    `json:"sync"`
}

// Route owns one route's geometry, derived statistics and children. All
// mutation goes through the methods in route.go so geometry, derived stats,
// timestamps and the dirty flag always change as one unit.
type Route struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Season      Season     `json:"season"`
	Category    Category   `json:"category"`

	Points    []Point    `json:"points"`
	Waypoints []Waypoint `json:"waypoints"`
	Photos    []Photo    `json:"photos,omitempty"`
	Landmarks []Landmark `json:"landmarks,omitempty"`

	DistanceKm           float64 `json:"distance_km"`
	EstimatedDurationMin float64 `json:"estimated_duration_min"`
	ElevationGainM       float64 `json:"elevation_gain_m"`

	Rating         int       `json:"rating"`
	Notes          string    `json:"notes"`
	CompletedCount int       `json:"completed_count"`
	LastCompleted  time.Time `json:"last_completed_at"`

	IsShared bool   `json:"is_shared"`
	ShareID  string `json:"share_id,omitempty"`
	ShareURL string `json:"share_url,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
	Sync         SyncState `json:"sync"`
}

// Syncable is implemented by every entity the sync tracker manages.
type Syncable interface {
	SyncState() *SyncState
	ModifiedAt() time.Time
}

func (r *Route) SyncState() *SyncState { return &r.Sync }
func (r *Route) ModifiedAt() time.Time { return r.LastModified }

func (p *Photo) SyncState() *SyncState { return &p.Sync }
func (p *Photo) ModifiedAt() time.Time { return p.CreatedAt }

func (l *Landmark) SyncState() *SyncState { return &l.Sync }
func (l *Landmark) ModifiedAt() time.Time { return l.CreatedAt }
