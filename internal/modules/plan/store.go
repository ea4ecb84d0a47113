// README: Plan store backed by PostgreSQL; payloads are JSON documents.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Put inserts a freshly computed result. Satisfies matching.ResultSink.
func (s *Store) Put(ctx context.Context, id types.ID, res *matching.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO ride_plans (id, trip_direction, payload, status_version, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $4)`,
		string(id),
		string(res.TripDirection),
		payload,
		time.Now(),
	)
	return err
}

// Get returns the stored result for a plan id. Satisfies matching.ResultSink.
func (s *Store) Get(ctx context.Context, id types.ID) (*matching.Result, error) {
	res, _, err := s.GetWithVersion(ctx, id)
	return res, err
}

// GetWithVersion also returns the optimistic-locking version for callers
// that intend to edit.
func (s *Store) GetWithVersion(ctx context.Context, id types.ID) (*matching.Result, int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT payload, status_version FROM ride_plans WHERE id = $1`, string(id),
	)
	var payload []byte
	var version int
	err := row.Scan(&payload, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	var res matching.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, 0, err
	}
	return &res, version, nil
}

// UpdatePayload replaces the payload iff the caller still holds the current
// version. Returns false when another edit won the race.
func (s *Store) UpdatePayload(ctx context.Context, id types.ID, res *matching.Result, version int) (bool, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_plans
		SET payload = $1,
		    status_version = status_version + 1,
		    updated_at = $2
		WHERE id = $3 AND status_version = $4`,
		payload,
		time.Now(),
		string(id),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AppendEvent records one manual-override audit row.
func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	var from *string
	if e.FromDriver != nil {
		v := string(*e.FromDriver)
		from = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO plan_events (id, plan_id, action, passenger_id, from_driver, to_driver, actor_uid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(e.ID),
		string(e.PlanID),
		e.Action,
		string(e.PassengerID),
		from,
		string(e.ToDriver),
		e.ActorUID,
		e.CreatedAt,
	)
	return err
}
