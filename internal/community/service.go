package community

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"backend-motormates/internal/route"
	"backend-motormates/internal/sync"
)

// Service is the discovery surface over shared routes. It reads the remote
// record store directly: what other drivers see is exactly what sync uploaded,
// never unsynced local state.
type Service struct {
	remote sync.RemoteStore
}

func NewService(remote sync.RemoteStore) *Service {
	return &Service{remote: remote}
}

// Summary is the browse-list projection of a shared route.
type Summary struct {
	RemoteID     string    `json:"remote_id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	Category     string    `json:"category"`
	DistanceKm   float64   `json:"distance_km"`
	LastModified time.Time `json:"last_modified"`
}

// SharedRoutes lists every route currently in the shared index, newest first.
func (s *Service) SharedRoutes(ctx context.Context) ([]Summary, error) {
	records, err := s.remote.Query(ctx, sync.Filter{Kind: sync.KindRoute, SharedOnly: true})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(records))
	for _, rec := range records {
		var r route.Route
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			// a record another client wrote with a schema we don't know yet
			continue
		}
		summaries = append(summaries, Summary{
			RemoteID:     rec.RemoteID,
			OwnerID:      rec.OwnerID,
			Name:         r.Name,
			Description:  r.Description,
			Difficulty:   string(r.Difficulty),
			Category:     string(r.Category),
			DistanceKm:   r.DistanceKm,
			LastModified: rec.LastModified,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastModified.After(summaries[j].LastModified)
	})
	return summaries, nil
}

// SharedRoute fetches the full uploaded copy of one shared route.
func (s *Service) SharedRoute(ctx context.Context, remoteID string) (route.Route, error) {
	rec, err := s.remote.Fetch(ctx, remoteID)
	if err != nil {
		return route.Route{}, err
	}
	if rec.Kind != sync.KindRoute || !rec.Shared {
		return route.Route{}, sync.ErrRecordNotFound
	}

	var r route.Route
	if err := json.Unmarshal(rec.Payload, &r); err != nil {
		return route.Route{}, err
	}
	return r, nil
}
