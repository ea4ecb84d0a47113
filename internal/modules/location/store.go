// README: Location store: Redis geocode cache plus Postgres lookup snapshots.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds staleness of resolved addresses; geocodes rarely move.
const cacheTTL = 30 * 24 * time.Hour

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

func (s *Store) GetResolved(ctx context.Context, key string) (*Resolved, error) {
	raw, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r Resolved
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) SetResolved(ctx context.Context, key string, r Resolved) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, raw, cacheTTL).Err()
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO geocode_lookups (address, lat, lng, recorded_at)
		VALUES ($1, $2, $3, $4)`,
		snap.Address,
		snap.Coordinate.Lat,
		snap.Coordinate.Lng,
		time.Now(),
	)
	return err
}
