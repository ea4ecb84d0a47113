// README: Matching configuration, defaults and override merging.
package matching

// Weights are the relative importance of each scoring component. Persisted
// weights must sum to 1.0 within weightSumTolerance; per-run overrides are
// merged field-wise and are not re-validated.
type Weights struct {
	RouteEfficiency  float64 `json:"route_efficiency"`
	Detour           float64 `json:"detour"`
	GenderMatch      float64 `json:"gender_match"`
	AgeMatch         float64 `json:"age_match"`
	DriverPreference float64 `json:"driver_preference"`
	EarlyDeparture   float64 `json:"early_departure"`
}

// TimingConfig tunes the travel-time model.
type TimingConfig struct {
	TrafficBufferMultiplier float64 `json:"traffic_buffer_multiplier"`
	LoadTimeMinutes         float64 `json:"load_time_minutes"`
}

// Config is the effective configuration for one matching run.
// MaxDetourMiles is a scoring knob on outbound trips and a hard cap on
// inbound ones.
type Config struct {
	MaxDetourMiles          float64      `json:"max_detour_miles"`
	EnforceGenderPreference bool         `json:"enforce_gender_preference"`
	GroupByAgeRange         float64      `json:"group_by_age_range"`
	Timing                  TimingConfig `json:"timing"`
	Weights                 Weights      `json:"weights"`
	PriorityOrder           []string     `json:"priority_order,omitempty"`
}

const weightSumTolerance = 0.01

// DefaultConfig returns the built-in configuration used when nothing is
// persisted and no overrides arrive with the request.
func DefaultConfig() Config {
	return Config{
		MaxDetourMiles:          5.0,
		EnforceGenderPreference: false,
		GroupByAgeRange:         10,
		Timing: TimingConfig{
			TrafficBufferMultiplier: 1.3,
			LoadTimeMinutes:         3,
		},
		Weights: Weights{
			RouteEfficiency:  0.30,
			Detour:           0.25,
			GenderMatch:      0.15,
			AgeMatch:         0.15,
			DriverPreference: 0.15,
			EarlyDeparture:   0,
		},
	}
}

// Overrides is a partial config carried with a match request. Nil fields
// keep the base value.
type Overrides struct {
	MaxDetourMiles          *float64         `json:"max_detour_miles,omitempty"`
	EnforceGenderPreference *bool            `json:"enforce_gender_preference,omitempty"`
	GroupByAgeRange         *float64         `json:"group_by_age_range,omitempty"`
	TrafficBufferMultiplier *float64         `json:"traffic_buffer_multiplier,omitempty"`
	LoadTimeMinutes         *float64         `json:"load_time_minutes,omitempty"`
	Weights                 *WeightsOverride `json:"weights,omitempty"`
	PriorityOrder           []string         `json:"priority_order,omitempty"`
}

// WeightsOverride merges field-wise into the base weights.
type WeightsOverride struct {
	RouteEfficiency  *float64 `json:"route_efficiency,omitempty"`
	Detour           *float64 `json:"detour,omitempty"`
	GenderMatch      *float64 `json:"gender_match,omitempty"`
	AgeMatch         *float64 `json:"age_match,omitempty"`
	DriverPreference *float64 `json:"driver_preference,omitempty"`
	EarlyDeparture   *float64 `json:"early_departure,omitempty"`
}

// Merge applies overrides to base and returns the effective config. Weights
// merge field-wise; PriorityOrder replaces wholesale; scalars replace
// wholesale.
func Merge(base Config, ov *Overrides) Config {
	if ov == nil {
		return base
	}
	cfg := base
	if ov.MaxDetourMiles != nil {
		cfg.MaxDetourMiles = *ov.MaxDetourMiles
	}
	if ov.EnforceGenderPreference != nil {
		cfg.EnforceGenderPreference = *ov.EnforceGenderPreference
	}
	if ov.GroupByAgeRange != nil {
		cfg.GroupByAgeRange = *ov.GroupByAgeRange
	}
	if ov.TrafficBufferMultiplier != nil {
		cfg.Timing.TrafficBufferMultiplier = *ov.TrafficBufferMultiplier
	}
	if ov.LoadTimeMinutes != nil {
		cfg.Timing.LoadTimeMinutes = *ov.LoadTimeMinutes
	}
	if ov.Weights != nil {
		w := &cfg.Weights
		if v := ov.Weights.RouteEfficiency; v != nil {
			w.RouteEfficiency = *v
		}
		if v := ov.Weights.Detour; v != nil {
			w.Detour = *v
		}
		if v := ov.Weights.GenderMatch; v != nil {
			w.GenderMatch = *v
		}
		if v := ov.Weights.AgeMatch; v != nil {
			w.AgeMatch = *v
		}
		if v := ov.Weights.DriverPreference; v != nil {
			w.DriverPreference = *v
		}
		if v := ov.Weights.EarlyDeparture; v != nil {
			w.EarlyDeparture = *v
		}
	}
	if ov.PriorityOrder != nil {
		cfg.PriorityOrder = ov.PriorityOrder
	}
	return cfg
}

// Sum returns the sum of all weight fields.
func (w Weights) Sum() float64 {
	return w.RouteEfficiency + w.Detour + w.GenderMatch + w.AgeMatch + w.DriverPreference + w.EarlyDeparture
}
