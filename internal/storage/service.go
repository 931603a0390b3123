package storage

import (
	"context"

	"github.com/google/uuid"

	"backend-motormates/internal/db"
)

const mediaBaseURL = "https://media.motormates.example"

// Service records file references for route photos. Bytes live in the media
// CDN; this service only tracks the object rows that point at them.
type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// SaveReference registers a photo file under its route and returns the URL
// the clients fetch it from.
func (s *Service) SaveReference(ctx context.Context, routeID, fileName string) (string, error) {
	url := mediaBaseURL + "/" + routeID + "/" + fileName
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, route_id, file_name, url)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), routeID, fileName, url)
	if err != nil {
		return "", err
	}
	return url, nil
}
