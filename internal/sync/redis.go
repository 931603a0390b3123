package sync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a RemoteStore backed by redis. Records live under
// remote:record:{id}; owner and shared-route index sets support the query
// side.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, rec Record) (string, error) {
	if s.client == nil {
		return "", ErrStoreUnavailable
	}
	if rec.RemoteID == "" {
		rec.RemoteID = "rec_" + uuid.NewString()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, recordKey(rec.RemoteID), data, 0).Err(); err != nil {
		return "", err
	}
	if err := s.client.SAdd(ctx, ownerKey(rec.OwnerID), rec.RemoteID).Err(); err != nil {
		return "", err
	}
	if rec.Kind == KindRoute {
		if rec.Shared {
			err = s.client.SAdd(ctx, sharedKey, rec.RemoteID).Err()
		} else {
			err = s.client.SRem(ctx, sharedKey, rec.RemoteID).Err()
		}
		if err != nil {
			return "", err
		}
	}
	return rec.RemoteID, nil
}

func (s *RedisStore) Fetch(ctx context.Context, remoteID string) (Record, error) {
	if s.client == nil {
		return Record{}, ErrStoreUnavailable
	}
	data, err := s.client.Get(ctx, recordKey(remoteID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *RedisStore) Query(ctx context.Context, f Filter) ([]Record, error) {
	if s.client == nil {
		return nil, ErrStoreUnavailable
	}

	indexKey := ownerKey(f.OwnerID)
	if f.SharedOnly {
		indexKey = sharedKey
	}
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, id := range ids {
		rec, err := s.Fetch(ctx, id)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if f.Kind != "" && rec.Kind != f.Kind {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

const sharedKey = "remote:index:shared"

func recordKey(remoteID string) string {
	return "remote:record:" + remoteID
}

func ownerKey(ownerID string) string {
	return "remote:index:owner:" + ownerID
}
