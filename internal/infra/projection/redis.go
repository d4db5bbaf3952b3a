// Package projection stores inventory snapshots for display.
package projection

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/projection"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hotel-booking:inventory:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps each snapshot for ttl. An expired snapshot reads as missing.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(roomTypeID uuid.UUID) string {
	return keyPrefix + roomTypeID.String()
}

func (s *RedisStore) Put(ctx context.Context, snap projection.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return errs.Wrap(err, "marshal snapshot")
	}
	if err := s.client.Set(ctx, key(snap.RoomTypeID), body, s.ttl).Err(); err != nil {
		return errs.Wrap(err, "redis set snapshot")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, roomTypeID uuid.UUID) (*projection.Snapshot, error) {
	body, err := s.client.Get(ctx, key(roomTypeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, projection.ErrSnapshotMissing
		}
		return nil, errs.Wrap(err, "redis get snapshot")
	}
	var snap projection.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		// treat a corrupt entry like a miss so it gets rebuilt
		return nil, errs.Mark(err, projection.ErrSnapshotMissing)
	}
	return &snap, nil
}
