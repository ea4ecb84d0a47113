// README: Persisted matching configuration with save-time validation.
package matchconfig

import (
	"context"
	"errors"
	"fmt"
	"math"

	"carpool/internal/modules/matching"
)

var (
	// ErrInvalidConfig wraps every structural validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidWeights rejects a config whose scoring weights do not sum to 1.
	ErrInvalidWeights = fmt.Errorf("%w: scoring weights must sum to 1.0", ErrInvalidConfig)
)

const weightSumTolerance = 0.01

// ConfigStore is the persistence surface; *Store implements it.
type ConfigStore interface {
	Load(ctx context.Context) (*matching.Config, error)
	Save(ctx context.Context, cfg matching.Config) error
}

// Service implements matching.ConfigSource on top of a store, falling back
// to the built-in defaults when nothing has been saved yet.
type Service struct {
	store ConfigStore
}

func NewService(store ConfigStore) *Service {
	return &Service{store: store}
}

// Load returns the persisted config, or the defaults when none exists.
func (s *Service) Load(ctx context.Context) (matching.Config, error) {
	if s.store == nil {
		return matching.DefaultConfig(), nil
	}
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return matching.Config{}, err
	}
	if cfg == nil {
		return matching.DefaultConfig(), nil
	}
	return *cfg, nil
}

// Save validates and persists a new configuration. Weight validation
// happens here, at save time, never per matching call.
func (s *Service) Save(ctx context.Context, cfg matching.Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	return s.store.Save(ctx, cfg)
}

// Validate checks the structural constraints on a config to be persisted.
func Validate(cfg matching.Config) error {
	if cfg.MaxDetourMiles <= 0 {
		return fmt.Errorf("%w: max_detour_miles must be positive, got %v", ErrInvalidConfig, cfg.MaxDetourMiles)
	}
	if cfg.GroupByAgeRange <= 0 {
		return fmt.Errorf("%w: group_by_age_range must be positive, got %v", ErrInvalidConfig, cfg.GroupByAgeRange)
	}
	w := cfg.Weights
	for name, v := range map[string]float64{
		"route_efficiency":  w.RouteEfficiency,
		"detour":            w.Detour,
		"gender_match":      w.GenderMatch,
		"age_match":         w.AgeMatch,
		"driver_preference": w.DriverPreference,
		"early_departure":   w.EarlyDeparture,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: weight %s out of range [0,1]: %v", ErrInvalidConfig, name, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return ErrInvalidWeights
	}
	return nil
}
