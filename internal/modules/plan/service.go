// README: Plan service: manual override edits over stored results.
package plan

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

// PlanStore is the persistence surface the service needs; *Store implements
// it, tests use an in-memory double.
type PlanStore interface {
	GetWithVersion(ctx context.Context, id types.ID) (*matching.Result, int, error)
	UpdatePayload(ctx context.Context, id types.ID, res *matching.Result, version int) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
}

type Service struct {
	store PlanStore
	cfg   matching.Config
}

// NewService creates a plan Service. cfg is the effective matching config
// used to re-route edited groups.
func NewService(store PlanStore, cfg matching.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

type MoveCommand struct {
	PlanID      types.ID
	PassengerID types.ID
	ToDriverID  types.ID
	Version     int
	ActorUID    string
}

// MovePassenger relocates one passenger into the target driver's group,
// pulling them out of their current group or off the unmatched list. Seat
// capacity is the only hard check: the organizer doing the edit owns any
// detour or timing consequences. Both affected groups are re-routed and the
// write goes through compare-and-swap on the plan version.
func (s *Service) MovePassenger(ctx context.Context, cmd MoveCommand) (*matching.Result, error) {
	if cmd.PlanID == "" || cmd.PassengerID == "" || cmd.ToDriverID == "" {
		return nil, ErrBadRequest
	}

	res, version, err := s.store.GetWithVersion(ctx, cmd.PlanID)
	if err != nil {
		return nil, err
	}
	if version != cmd.Version {
		return nil, ErrConflict
	}

	target := findGroup(res, cmd.ToDriverID)
	if target == nil {
		return nil, ErrBadRequest
	}
	if len(target.Passengers) >= target.Driver.AvailableSeats {
		return nil, ErrNoSeats
	}

	passenger, fromDriver := removePassenger(res, cmd.PassengerID)
	if passenger == nil {
		return nil, ErrBadRequest
	}
	if fromDriver != nil && *fromDriver == cmd.ToDriverID {
		return nil, ErrBadRequest
	}
	target.Passengers = append(target.Passengers, *passenger)

	event := matching.EventContext{
		Coordinate: res.StartLocation,
		StartTime:  res.EventStartTime,
		Direction:  res.TripDirection,
	}
	matching.Reflow(target, event, s.cfg)
	if fromDriver != nil {
		if src := findGroup(res, *fromDriver); src != nil {
			matching.Reflow(src, event, s.cfg)
		}
	}
	recountUnmatchedDrivers(res)

	ok, err := s.store.UpdatePayload(ctx, cmd.PlanID, res, cmd.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		ID:          types.ID(uuid.NewString()),
		PlanID:      cmd.PlanID,
		Action:      actionMovePassenger,
		PassengerID: cmd.PassengerID,
		FromDriver:  fromDriver,
		ToDriver:    cmd.ToDriverID,
		ActorUID:    cmd.ActorUID,
		CreatedAt:   time.Now(),
	})
	return res, nil
}

func findGroup(res *matching.Result, driverID types.ID) *matching.RideGroup {
	for i := range res.RideGroups {
		if res.RideGroups[i].Driver.ID == driverID {
			return &res.RideGroups[i]
		}
	}
	return nil
}

// removePassenger pulls the passenger out of whichever group or unmatched
// entry currently holds them. Returns the passenger and the source driver
// (nil when they came off the unmatched list).
func removePassenger(res *matching.Result, passengerID types.ID) (*matching.Passenger, *types.ID) {
	for g := range res.RideGroups {
		group := &res.RideGroups[g]
		for i := range group.Passengers {
			if group.Passengers[i].ID == passengerID {
				p := group.Passengers[i]
				group.Passengers = append(group.Passengers[:i], group.Passengers[i+1:]...)
				from := group.Driver.ID
				return &p, &from
			}
		}
	}
	for i := range res.UnmatchedPassengers {
		if res.UnmatchedPassengers[i].ID == passengerID {
			p := res.UnmatchedPassengers[i].Passenger
			res.UnmatchedPassengers = append(res.UnmatchedPassengers[:i], res.UnmatchedPassengers[i+1:]...)
			return &p, nil
		}
	}
	return nil, nil
}

// recountUnmatchedDrivers rebuilds the empty-group driver list and the
// matched counters after an edit.
func recountUnmatchedDrivers(res *matching.Result) {
	res.UnmatchedDrivers = res.UnmatchedDrivers[:0]
	matchedPassengers := 0
	matchedDrivers := 0
	for i := range res.RideGroups {
		g := &res.RideGroups[i]
		if len(g.Passengers) == 0 {
			res.UnmatchedDrivers = append(res.UnmatchedDrivers, g.Driver)
			continue
		}
		matchedPassengers += len(g.Passengers)
		matchedDrivers++
	}
	res.Metadata.MatchedPassengers = matchedPassengers
	res.Metadata.MatchedDrivers = matchedDrivers
}
