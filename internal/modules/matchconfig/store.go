// README: Config store backed by PostgreSQL; one JSON row per saved version.
package matchconfig

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"carpool/internal/modules/matching"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Load returns the newest saved config, or nil when none has been saved.
func (s *Store) Load(ctx context.Context) (*matching.Config, error) {
	row := s.db.QueryRow(ctx, `
		SELECT payload FROM matching_configs
		ORDER BY version DESC
		LIMIT 1`,
	)
	var payload []byte
	err := row.Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg matching.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save appends a new config version.
func (s *Store) Save(ctx context.Context, cfg matching.Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO matching_configs (version, payload, created_at)
		VALUES (COALESCE((SELECT MAX(version) FROM matching_configs), 0) + 1, $1, $2)`,
		payload,
		time.Now(),
	)
	return err
}
