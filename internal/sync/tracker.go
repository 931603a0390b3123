package sync

import "backend-motormates/internal/route"

// Tracker is the sync-state policy for dirty entities. It is passed to the
// components that need it rather than held as process-wide state.
type Tracker struct{}

// PendingUpload filters to entities whose local state has diverged from the
// last known remote snapshot.
func (Tracker) PendingUpload(entities []route.Syncable) []route.Syncable {
	var pending []route.Syncable
	for _, e := range entities {
		if e.SyncState().Dirty {
			pending = append(pending, e)
		}
	}
	return pending
}

// ApplyRemoteRecordID sets the remote identifier if absent. The id is
// write-once; later calls are no-ops.
func (Tracker) ApplyRemoteRecordID(e route.Syncable, remoteID string) {
	st := e.SyncState()
	if st.RemoteID == "" {
		st.RemoteID = remoteID
	}
}

// MarkSynced clears the dirty flag only when no mutation happened after the
// upload snapshot was taken. Returns false when the clear was withheld; the
// next pass picks the entity up again.
func (Tracker) MarkSynced(e route.Syncable, versionAtUpload int64) bool {
	st := e.SyncState()
	if st.Version != versionAtUpload {
		return false
	}
	st.Dirty = false
	return true
}

// ResolveConflict is last-writer-wins on the modification timestamp. The
// local copy wins only when strictly later; ties go to the remote copy.
func (Tracker) ResolveConflict(local, remote route.Syncable) route.Syncable {
	if local.ModifiedAt().After(remote.ModifiedAt()) {
		return local
	}
	return remote
}
