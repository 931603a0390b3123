package sync

import (
	"context"
	"encoding/json"

	"backend-motormates/internal/route"
	"backend-motormates/internal/stream"
)

// LocalStore is the slice of the route service the syncer needs: reading
// dirty entities and committing per-entity outcomes.
type LocalStore interface {
	DirtyRoutes(ctx context.Context, ownerID string, limit int) ([]route.Route, error)
	DirtyPhotos(ctx context.Context, routeID string) ([]route.Photo, error)
	DirtyLandmarks(ctx context.Context, routeID string) ([]route.Landmark, error)
	ConfirmRouteSynced(ctx context.Context, id, remoteID string, version int64) (bool, error)
	ConfirmPhotoSynced(ctx context.Context, id, remoteID string, version int64) (bool, error)
	ConfirmLandmarkSynced(ctx context.Context, id, remoteID string, version int64) (bool, error)
	OverwriteRouteFromRemote(ctx context.Context, remote route.Route, version int64) (bool, error)
	DirtyCounts(ctx context.Context, ownerID string) (int, int, int, error)
}

// Syncer uploads dirty entities: routes first, then each route's dirty
// photos and landmarks depth-first. Every entity commits independently, so
// abandoning a batch at any entity boundary leaves nothing half-written.
type Syncer struct {
	local     LocalStore
	remote    RemoteStore
	tracker   Tracker
	hub       *stream.Hub
	batchSize int
}

func NewSyncer(local LocalStore, remote RemoteStore, hub *stream.Hub, batchSize int) *Syncer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Syncer{local: local, remote: remote, hub: hub, batchSize: batchSize}
}

// Report is returned to the caller as a status rather than an error so the
// UI can offer a retry; a single entity failure never fails the batch.
type Report struct {
	Uploaded int           `json:"uploaded"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Failures []EntityError `json:"failures,omitempty"`
}

type EntityError struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

type confirmFunc func(ctx context.Context, id, remoteID string, version int64) (bool, error)

// Run uploads one batch of the owner's dirty entities. The context is
// checked between entities, so cancellation abandons the rest of the batch
// without corrupting anything already committed.
func (s *Syncer) Run(ctx context.Context, ownerID string) (Report, error) {
	var report Report

	routes, err := s.local.DirtyRoutes(ctx, ownerID, s.batchSize)
	if err != nil {
		return report, err
	}

	for i := range routes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r := &routes[i]
		s.syncRoute(ctx, r, &report)

		photos, err := s.local.DirtyPhotos(ctx, r.ID)
		if err != nil {
			s.fail(&report, KindPhoto, r.ID, err)
			continue
		}
		for j := range photos {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			p := &photos[j]
			s.uploadEntity(ctx, KindPhoto, r.OwnerID, p.ID, p, false, s.local.ConfirmPhotoSynced, &report)
		}

		landmarks, err := s.local.DirtyLandmarks(ctx, r.ID)
		if err != nil {
			s.fail(&report, KindLandmark, r.ID, err)
			continue
		}
		for j := range landmarks {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			l := &landmarks[j]
			s.uploadEntity(ctx, KindLandmark, r.OwnerID, l.ID, l, false, s.local.ConfirmLandmarkSynced, &report)
		}
	}
	return report, nil
}

// Status reports how much local state still awaits upload.
func (s *Syncer) Status(ctx context.Context, ownerID string) (map[string]int, error) {
	routes, photos, landmarks, err := s.local.DirtyCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"dirty_routes":    routes,
		"dirty_photos":    photos,
		"dirty_landmarks": landmarks,
	}, nil
}

func (s *Syncer) syncRoute(ctx context.Context, r *route.Route, report *Report) {
	version := r.Sync.Version

	if r.Sync.RemoteID != "" {
		if rec, err := s.remote.Fetch(ctx, r.Sync.RemoteID); err == nil {
			var remoteCopy route.Route
			if err := json.Unmarshal(rec.Payload, &remoteCopy); err == nil {
				if s.tracker.ResolveConflict(r, &remoteCopy) == route.Syncable(&remoteCopy) {
					remoteCopy.ID = r.ID
					applied, err := s.local.OverwriteRouteFromRemote(ctx, remoteCopy, version)
					if err != nil {
						s.fail(report, KindRoute, r.ID, err)
						return
					}
					report.Skipped++
					status := "remote-wins"
					if !applied {
						// A local edit raced the fetch; the route stays dirty
						// and gets resolved again on the next pass.
						status = "deferred"
					}
					s.publish(r.OwnerID, KindRoute, r.ID, status)
					return
				}
			}
		}
	}

	s.uploadEntity(ctx, KindRoute, r.OwnerID, r.ID, r, r.IsShared, s.local.ConfirmRouteSynced, report)
}

func (s *Syncer) uploadEntity(ctx context.Context, kind, ownerID, localID string, e route.Syncable, shared bool, confirm confirmFunc, report *Report) {
	version := e.SyncState().Version

	payload, err := json.Marshal(e)
	if err != nil {
		s.fail(report, kind, localID, err)
		return
	}
	rec := Record{
		Kind:         kind,
		LocalID:      localID,
		OwnerID:      ownerID,
		RemoteID:     e.SyncState().RemoteID,
		Shared:       shared,
		LastModified: e.ModifiedAt(),
		Payload:      payload,
	}

	remoteID, err := s.remote.Save(ctx, rec)
	if err != nil {
		s.fail(report, kind, localID, err)
		return
	}
	s.tracker.ApplyRemoteRecordID(e, remoteID)

	cleared, err := confirm(ctx, localID, remoteID, version)
	if err != nil {
		s.fail(report, kind, localID, err)
		return
	}
	if !cleared {
		// A local edit raced the upload; leave it for the next pass.
		report.Skipped++
		s.publish(ownerID, kind, localID, "deferred")
		return
	}
	s.tracker.MarkSynced(e, version)
	report.Uploaded++
	s.publish(ownerID, kind, localID, "uploaded")
}

func (s *Syncer) fail(report *Report, kind, id string, err error) {
	report.Failed++
	report.Failures = append(report.Failures, EntityError{Kind: kind, ID: id, Error: err.Error()})
}

func (s *Syncer) publish(ownerID, kind, id, status string) {
	if s.hub == nil {
		return
	}
	s.hub.PublishEvent(ownerID, stream.Event{EntityType: kind, EntityID: id, Status: status})
}
