package sync

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

const (
	KindRoute    = "route"
	KindPhoto    = "photo"
	KindLandmark = "landmark"
)

// Record is the logical unit the remote store persists. The remote store's
// own wire protocol is a black box; this is only the read/write contract.
type Record struct {
	Kind         string          `json:"kind"`
	LocalID      string          `json:"local_id"`
	OwnerID      string          `json:"owner_id"`
	RemoteID     string          `json:"remote_id"`
	Shared       bool            `json:"shared"`
	LastModified time.Time       `json:"last_modified"`
	Payload      json.RawMessage `json:"payload"`
}

type Filter struct {
	Kind       string
	OwnerID    string
	SharedOnly bool
}

// RemoteStore is the external record store boundary. Save assigns a remote id
// on first upload and reuses it for updates.
type RemoteStore interface {
	Save(ctx context.Context, rec Record) (string, error)
	Fetch(ctx context.Context, remoteID string) (Record, error)
	Query(ctx context.Context, f Filter) ([]Record, error)
}

var (
	ErrRecordNotFound   = errors.New("remote record not found")
	ErrStoreUnavailable = errors.New("remote store unavailable")
)
