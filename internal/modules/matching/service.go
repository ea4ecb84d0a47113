// README: Matching service: validation, orchestration, result assembly.
package matching

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"carpool/internal/types"
)

const algorithmVersion = "1.4.0"

var (
	ErrMissingStartTime = errors.New("event start time is required for trips to the event")
	ErrNotFound         = errors.New("match result not found")
)

// ResultSink persists finished results keyed by their run id. The engine
// never reads it back during a run.
type ResultSink interface {
	Put(ctx context.Context, id types.ID, res *Result) error
	Get(ctx context.Context, id types.ID) (*Result, error)
}

// ConfigSource supplies the persisted base configuration.
type ConfigSource interface {
	Load(ctx context.Context) (Config, error)
}

type Service struct {
	sink    ResultSink
	configs ConfigSource
}

// NewService creates a matching Service. Both dependencies are optional:
// without a sink results are not persisted, without a config source the
// built-in defaults apply.
func NewService(sink ResultSink, configs ConfigSource) *Service {
	return &Service{sink: sink, configs: configs}
}

type MatchCommand struct {
	Passengers []Passenger
	Drivers    []Driver
	Event      EventContext
	Overrides  *Overrides
}

// Match runs one complete matching pass: filter inputs, build the context,
// assign, order stops, plan timing (inbound), and assemble the result. The
// run is CPU-bound and owns its context exclusively; ctx is only consulted
// for loading the base config at the start and for persistence at the end.
func (s *Service) Match(ctx context.Context, cmd MatchCommand) (*Result, error) {
	if cmd.Event.Direction == DirectionToEvent && cmd.Event.StartTime == nil {
		return nil, ErrMissingStartTime
	}

	cfg := DefaultConfig()
	if s.configs != nil {
		loaded, err := s.configs.Load(ctx)
		if err != nil {
			log.Printf("matching: config load failed, using defaults: %v", err)
		} else {
			cfg = loaded
		}
	}
	cfg = Merge(cfg, cmd.Overrides)

	passengers := filterPassengers(cmd.Passengers)
	drivers := filterDrivers(cmd.Drivers)

	started := time.Now()
	rc := buildContext(passengers, drivers, cmd.Event, cfg)
	eng := newEngine(rc)
	eng.run()

	res := s.assemble(rc, eng, started)

	if s.sink != nil {
		if err := s.sink.Put(ctx, res.ID, res); err != nil {
			log.Printf("matching: persist result %s failed: %v", res.ID, err)
		}
	}
	return res, nil
}

// Get returns a previously stored result.
func (s *Service) Get(ctx context.Context, id types.ID) (*Result, error) {
	if s.sink == nil {
		return nil, ErrNotFound
	}
	return s.sink.Get(ctx, id)
}

func filterPassengers(in []Passenger) []Passenger {
	out := make([]Passenger, 0, len(in))
	for _, p := range in {
		if p.NeedsRide {
			out = append(out, p)
		}
	}
	return out
}

func filterDrivers(in []Driver) []Driver {
	out := make([]Driver, 0, len(in))
	for _, d := range in {
		if d.CanDrive && d.AvailableSeats > 0 {
			out = append(out, d)
		}
	}
	return out
}

// assemble turns the final ledger state into the caller-owned result: one
// ride group per driver (possibly empty), stop orders, inbound schedules,
// and a reason for every passenger left behind.
func (s *Service) assemble(rc *runContext, eng *engine, started time.Time) *Result {
	res := &Result{
		ID:                  types.ID(uuid.NewString()),
		TripDirection:       rc.direction,
		StartLocation:       rc.event.Coordinate,
		EventStartTime:      rc.event.StartTime,
		RideGroups:          make([]RideGroup, 0, len(rc.drivers)),
		UnmatchedPassengers: []UnmatchedPassenger{},
		UnmatchedDrivers:    []Driver{},
	}

	matchedPassengers := 0
	matchedDrivers := 0
	for i := range rc.drivers {
		d := rc.drivers[i]
		ordered := rc.optimizeStops(d.ID)
		rc.assignments[d.ID] = ordered

		group := RideGroup{
			ID:        types.ID(uuid.NewString()),
			Driver:    d,
			Direction: rc.direction,
			Waypoints: rc.buildWaypoints(d.ID, ordered),
		}
		for _, pid := range ordered {
			group.Passengers = append(group.Passengers, *rc.byPassenger[pid])
		}
		if len(ordered) > 0 {
			group.TotalRouteDistance = rc.routeDistance(d.ID, ordered)
			group.TotalDetour = rc.totalDetour(d.ID, ordered)
			matchedPassengers += len(ordered)
			matchedDrivers++
			if rc.direction == DirectionToEvent {
				group.Schedule = rc.planSchedule(d.ID, ordered)
			}
		} else {
			res.UnmatchedDrivers = append(res.UnmatchedDrivers, d)
		}
		res.RideGroups = append(res.RideGroups, group)
	}

	for _, p := range rc.availableInOrder() {
		reason := s.unmatchedReason(rc, eng, p)
		res.UnmatchedPassengers = append(res.UnmatchedPassengers, UnmatchedPassenger{
			Passenger:       *p,
			Reason:          reason,
			SuggestedAction: suggestedActions[reason],
		})
	}

	res.Metadata = Metadata{
		TotalPassengers:    len(rc.passengers),
		TotalDrivers:       len(rc.drivers),
		MatchedPassengers:  matchedPassengers,
		MatchedDrivers:     matchedDrivers,
		MatchingDurationMs: time.Since(started).Milliseconds(),
		AlgorithmVersion:   algorithmVersion,
		PriorityOrder:      priorityOrder(),
		TripDirection:      rc.direction,
	}
	return res
}

// unmatchedReason picks the most specific explanation for a passenger the
// engine could not seat.
func (s *Service) unmatchedReason(rc *runContext, eng *engine, p *Passenger) UnmatchedReason {
	if rc.direction == DirectionFromEvent && p.LeavingEarly {
		anyEarlyDriver := false
		for i := range rc.drivers {
			if rc.drivers[i].LeavingEarly {
				anyEarlyDriver = true
				break
			}
		}
		if !anyEarlyDriver {
			return ReasonEarlyDepartureMismatch
		}
	}

	// With no drivers at all there were never seats to run out of.
	if len(rc.drivers) == 0 {
		return ReasonNoAvailableDrivers
	}
	if rc.remainingSeats() == 0 {
		return ReasonNoSeatsAvailable
	}

	if rc.cfg.EnforceGenderPreference && p.GenderPreference == PreferSameGender {
		sameGenderSeats := false
		for i := range rc.drivers {
			d := &rc.drivers[i]
			if d.Gender == p.Gender && rc.seats[d.ID] > 0 {
				sameGenderSeats = true
				break
			}
		}
		if !sameGenderSeats {
			return ReasonGenderPreferenceUnmet
		}
	}

	if rc.direction == DirectionToEvent && eng.rejectedOnlyBy(p.ID, timing.name()) {
		return ReasonCannotArriveOnTime
	}
	return ReasonNoAvailableDrivers
}
