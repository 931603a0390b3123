package route

import (
	"context"
	"time"

	"backend-motormates/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FileStore records stored-file references for photos. It is an external
// collaborator: a failed file write must not corrupt the route aggregate,
// so the photo metadata is kept either way and the outcome is reported in
// the photo's file_stored field.
type FileStore interface {
	SaveReference(ctx context.Context, routeID, fileName string) (string, error)
}

type Service struct {
	db        db.Querier
	files     FileStore
	shareBase string
}

func NewService(db db.Querier, files FileStore, shareBaseURL string) *Service {
	return &Service{db: db, files: files, shareBase: shareBaseURL}
}

const routeColumns = `id, owner_id, name, description, difficulty, season, category,
	       points, waypoints, distance_km, est_duration_min, elevation_gain_m,
	       rating, notes, completed_count, last_completed_at,
	       is_shared, COALESCE(share_id,''), COALESCE(remote_id,''), dirty, version,
	       created_at, last_modified`

func (s *Service) CreateRoute(ctx context.Context, input *Route) (Route, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO routes (id, owner_id, name, description, difficulty, season, category,
		                    points, waypoints, distance_km, est_duration_min, elevation_gain_m,
		                    rating, notes, completed_count, last_completed_at,
		                    is_shared, share_id, remote_id, dirty, version, created_at, last_modified)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`, input.ID, input.OwnerID, input.Name, input.Description, input.Difficulty, input.Season, input.Category,
		EncodePoints(input.Points), EncodeWaypoints(input.Waypoints),
		input.DistanceKm, input.EstimatedDurationMin, input.ElevationGainM,
		input.Rating, input.Notes, input.CompletedCount, timePtr(input.LastCompleted),
		input.IsShared, nullString(input.ShareID), nullString(input.Sync.RemoteID),
		input.Sync.Dirty, input.Sync.Version, input.CreatedAt, input.LastModified)
	if err != nil {
		return Route{}, err
	}
	return *input, nil
}

func (s *Service) GetRoute(ctx context.Context, id string) (Route, error) {
	row := s.db.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes WHERE id=$1`, id)
	r, err := s.scanRoute(row)
	if err != nil {
		return Route{}, err
	}

	photos, err := s.photosForRoute(ctx, id, false)
	if err != nil {
		return Route{}, err
	}
	landmarks, err := s.landmarksForRoute(ctx, id, false)
	if err != nil {
		return Route{}, err
	}
	r.Photos = photos
	r.Landmarks = landmarks
	return r, nil
}

func (s *Service) ListRoutes(ctx context.Context, ownerID string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+routeColumns+`
		FROM routes WHERE owner_id=$1
		ORDER BY last_modified DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		r, err := s.scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// UpdateGeometry replaces the path and recomputes the derived statistics in
// one statement, so readers never observe geometry newer than its stats.
func (s *Service) UpdateGeometry(ctx context.Context, id string, points []Point, waypoints []Waypoint) (Route, error) {
	var agg Route
	agg.UpdateGeometry(points, waypoints)

	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET points=$2, waypoints=$3, distance_km=$4, est_duration_min=$5,
		    last_modified=$6, dirty=true, version=version+1
		WHERE id=$1
	`, id, EncodePoints(agg.Points), EncodeWaypoints(agg.Waypoints),
		agg.DistanceKm, agg.EstimatedDurationMin, agg.LastModified)
	if err != nil {
		return Route{}, err
	}
	if tag.RowsAffected() == 0 {
		return Route{}, pgx.ErrNoRows
	}
	return s.GetRoute(ctx, id)
}

func (s *Service) AddPhoto(ctx context.Context, routeID string, p Photo) (Photo, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.RouteID = routeID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.Sync = SyncState{Dirty: true, Version: 1}

	p.FileStored = false
	if s.files != nil && p.FileName != "" {
		if _, err := s.files.SaveReference(ctx, routeID, p.FileName); err == nil {
			p.FileStored = true
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Photo{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var lat, lng *float64
	if p.Point != nil {
		lat, lng = &p.Point.Lat, &p.Point.Lng
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO route_photos (id, route_id, file_name, caption, lat, lng, is_key, position,
		                          file_stored, captured_at, created_at, remote_id, dirty, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, p.ID, p.RouteID, p.FileName, p.Caption, lat, lng, p.IsKey, p.Position,
		p.FileStored, timePtr(p.CapturedAt), p.CreatedAt, nullString(p.Sync.RemoteID), p.Sync.Dirty, p.Sync.Version)
	if err != nil {
		return Photo{}, err
	}

	if err := touchRoute(ctx, tx, routeID, p.CreatedAt); err != nil {
		return Photo{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Photo{}, err
	}
	return p, nil
}

func (s *Service) AddLandmark(ctx context.Context, routeID string, l Landmark) (Landmark, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.RouteID = routeID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	l.Sync = SyncState{Dirty: true, Version: 1}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Landmark{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO route_landmarks (id, route_id, name, description, kind, lat, lng,
		                             created_at, remote_id, dirty, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, l.ID, l.RouteID, l.Name, l.Description, l.Type, l.Point.Lat, l.Point.Lng,
		l.CreatedAt, nullString(l.Sync.RemoteID), l.Sync.Dirty, l.Sync.Version)
	if err != nil {
		return Landmark{}, err
	}

	if err := touchRoute(ctx, tx, routeID, l.CreatedAt); err != nil {
		return Landmark{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Landmark{}, err
	}
	return l, nil
}

func (s *Service) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET completed_count=completed_count+1, last_completed_at=$2,
		    last_modified=$2, dirty=true, version=version+1
		WHERE id=$1
	`, id, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Service) Rate(ctx context.Context, id string, rating int) error {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET rating=$2, last_modified=$3, dirty=true, version=version+1
		WHERE id=$1
	`, id, rating, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteRoute removes the route and its children in one transaction.
func (s *Service) DeleteRoute(ctx context.Context, id string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM route_photos WHERE route_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM route_landmarks WHERE route_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ShareRoute assigns a share id once and returns it on every call. A repeat
// call changes nothing, so it neither re-dirties nor bumps the version.
func (s *Service) ShareRoute(ctx context.Context, id string) (string, string, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE routes
		SET is_shared=true,
		    last_modified = CASE WHEN share_id IS NULL THEN $3 ELSE last_modified END,
		    dirty = CASE WHEN share_id IS NULL THEN true ELSE dirty END,
		    version = version + CASE WHEN share_id IS NULL THEN 1 ELSE 0 END,
		    share_id = COALESCE(share_id, $2)
		WHERE id=$1
		RETURNING share_id
	`, id, uuid.NewString(), time.Now())

	var shareID string
	if err := row.Scan(&shareID); err != nil {
		return "", "", err
	}
	return shareID, s.shareBase + "/" + shareID, nil
}

// CollaborativeShare needs the remote record id; without one the route has
// never been uploaded and there is nothing a collaborator could join.
func (s *Service) CollaborativeShare(ctx context.Context, id string) (string, error) {
	var remoteID string
	err := s.db.QueryRow(ctx, `SELECT COALESCE(remote_id,'') FROM routes WHERE id=$1`, id).Scan(&remoteID)
	if err != nil {
		return "", err
	}
	if remoteID == "" {
		return "", ErrNotSynced
	}
	return remoteID, nil
}

func (s *Service) ExportGPX(ctx context.Context, id string) (string, error) {
	r, err := s.GetRoute(ctx, id)
	if err != nil {
		return "", err
	}
	return ToGPX(r)
}

// --- sync support ---

func (s *Service) DirtyRoutes(ctx context.Context, ownerID string, limit int) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+routeColumns+`
		FROM routes WHERE owner_id=$1 AND dirty
		ORDER BY last_modified
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		r, err := s.scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *Service) DirtyPhotos(ctx context.Context, routeID string) ([]Photo, error) {
	return s.photosForRoute(ctx, routeID, true)
}

func (s *Service) DirtyLandmarks(ctx context.Context, routeID string) ([]Landmark, error) {
	return s.landmarksForRoute(ctx, routeID, true)
}

// ConfirmRouteSynced clears the dirty flag only when the version still equals
// the snapshot taken at upload start. A mutation in between leaves the flag
// set for the next pass. The remote id is write-once.
func (s *Service) ConfirmRouteSynced(ctx context.Context, id, remoteID string, version int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE routes SET dirty=false, remote_id=COALESCE(remote_id, $2)
		WHERE id=$1 AND version=$3
	`, id, remoteID, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Service) ConfirmPhotoSynced(ctx context.Context, id, remoteID string, version int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE route_photos SET dirty=false, remote_id=COALESCE(remote_id, $2)
		WHERE id=$1 AND version=$3
	`, id, remoteID, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Service) ConfirmLandmarkSynced(ctx context.Context, id, remoteID string, version int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE route_landmarks SET dirty=false, remote_id=COALESCE(remote_id, $2)
		WHERE id=$1 AND version=$3
	`, id, remoteID, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// OverwriteRouteFromRemote applies a newer remote copy over local state.
// Conditional on the version snapshot for the same reason as the confirms.
func (s *Service) OverwriteRouteFromRemote(ctx context.Context, remote Route, version int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE routes
		SET name=$2, description=$3, difficulty=$4, season=$5, category=$6,
		    points=$7, waypoints=$8, distance_km=$9, est_duration_min=$10, elevation_gain_m=$11,
		    rating=$12, notes=$13, completed_count=$14, last_completed_at=$15,
		    last_modified=$16, dirty=false
		WHERE id=$1 AND version=$17
	`, remote.ID, remote.Name, remote.Description, remote.Difficulty, remote.Season, remote.Category,
		EncodePoints(remote.Points), EncodeWaypoints(remote.Waypoints),
		remote.DistanceKm, remote.EstimatedDurationMin, remote.ElevationGainM,
		remote.Rating, remote.Notes, remote.CompletedCount, timePtr(remote.LastCompleted),
		remote.LastModified, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Service) DirtyCounts(ctx context.Context, ownerID string) (int, int, int, error) {
	var routes, photos, landmarks int
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM routes WHERE owner_id=$1 AND dirty),
			(SELECT COUNT(*) FROM route_photos p JOIN routes r ON r.id=p.route_id WHERE r.owner_id=$1 AND p.dirty),
			(SELECT COUNT(*) FROM route_landmarks l JOIN routes r ON r.id=l.route_id WHERE r.owner_id=$1 AND l.dirty)
	`, ownerID).Scan(&routes, &photos, &landmarks)
	if err != nil {
		return 0, 0, 0, err
	}
	return routes, photos, landmarks, nil
}

// --- scanning helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func (s *Service) scanRoute(row scanner) (Route, error) {
	var r Route
	var points, waypoints []byte
	var lastCompleted *time.Time
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.Difficulty, &r.Season, &r.Category,
		&points, &waypoints, &r.DistanceKm, &r.EstimatedDurationMin, &r.ElevationGainM,
		&r.Rating, &r.Notes, &r.CompletedCount, &lastCompleted,
		&r.IsShared, &r.ShareID, &r.Sync.RemoteID, &r.Sync.Dirty, &r.Sync.Version,
		&r.CreatedAt, &r.LastModified)
	if err != nil {
		return Route{}, err
	}
	r.Points = DecodePoints(points)
	r.Waypoints = DecodeWaypoints(waypoints)
	if lastCompleted != nil {
		r.LastCompleted = *lastCompleted
	}
	if r.ShareID != "" {
		r.ShareURL = s.shareBase + "/" + r.ShareID
	}
	return r, nil
}

func (s *Service) photosForRoute(ctx context.Context, routeID string, dirtyOnly bool) ([]Photo, error) {
	query := `
		SELECT id, route_id, file_name, caption, lat, lng, is_key, position, file_stored,
		       captured_at, created_at, COALESCE(remote_id,''), dirty, version
		FROM route_photos WHERE route_id=$1`
	if dirtyOnly {
		query += ` AND dirty`
	}
	query += ` ORDER BY position, created_at`

	rows, err := s.db.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		var lat, lng *float64
		var captured *time.Time
		if err := rows.Scan(&p.ID, &p.RouteID, &p.FileName, &p.Caption, &lat, &lng, &p.IsKey, &p.Position,
			&p.FileStored, &captured, &p.CreatedAt, &p.Sync.RemoteID, &p.Sync.Dirty, &p.Sync.Version); err != nil {
			return nil, err
		}
		if lat != nil && lng != nil {
			p.Point = &Point{Lat: *lat, Lng: *lng}
		}
		if captured != nil {
			p.CapturedAt = *captured
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func (s *Service) landmarksForRoute(ctx context.Context, routeID string, dirtyOnly bool) ([]Landmark, error) {
	query := `
		SELECT id, route_id, name, description, kind, lat, lng, created_at,
		       COALESCE(remote_id,''), dirty, version
		FROM route_landmarks WHERE route_id=$1`
	if dirtyOnly {
		query += ` AND dirty`
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var landmarks []Landmark
	for rows.Next() {
		var l Landmark
		if err := rows.Scan(&l.ID, &l.RouteID, &l.Name, &l.Description, &l.Type, &l.Point.Lat, &l.Point.Lng,
			&l.CreatedAt, &l.Sync.RemoteID, &l.Sync.Dirty, &l.Sync.Version); err != nil {
			return nil, err
		}
		landmarks = append(landmarks, l)
	}
	return landmarks, nil
}

func touchRoute(ctx context.Context, tx pgx.Tx, routeID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE routes SET last_modified=$2, dirty=true, version=version+1 WHERE id=$1
	`, routeID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
