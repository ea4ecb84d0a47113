// README: Manual-override tests with an in-memory plan store.
package plan

import (
	"context"
	"sync"
	"testing"

	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

type memoryPlanStore struct {
	mu      sync.Mutex
	results map[types.ID]*matching.Result
	version map[types.ID]int
	events  []*Event
}

func newMemoryPlanStore() *memoryPlanStore {
	return &memoryPlanStore{
		results: make(map[types.ID]*matching.Result),
		version: make(map[types.ID]int),
	}
}

func (m *memoryPlanStore) put(res *matching.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[res.ID] = res
}

func (m *memoryPlanStore) GetWithVersion(_ context.Context, id types.ID) (*matching.Result, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.results[id]
	if !ok {
		return nil, 0, ErrNotFound
	}
	cp := *res
	return &cp, m.version[id], nil
}

func (m *memoryPlanStore) UpdatePayload(_ context.Context, id types.ID, res *matching.Result, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version[id] != version {
		return false, nil
	}
	m.results[id] = res
	m.version[id]++
	return true, nil
}

func (m *memoryPlanStore) AppendEvent(_ context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func pt(lat, lng float64) *types.Point {
	return &types.Point{Lat: lat, Lng: lng}
}

func passenger(id string, lat, lng float64) matching.Passenger {
	return matching.Passenger{
		Person: matching.Person{
			ID: types.ID(id), Name: id, Gender: matching.GenderFemale, Age: 30, Home: pt(lat, lng),
		},
		NeedsRide:        true,
		GenderPreference: matching.PreferAnyGender,
	}
}

func driver(id string, lat, lng float64, seats int) matching.Driver {
	return matching.Driver{
		Person: matching.Person{
			ID: types.ID(id), Name: id, Gender: matching.GenderFemale, Age: 32, Home: pt(lat, lng),
		},
		CanDrive:       true,
		AvailableSeats: seats,
	}
}

// storedPlan runs a real outbound matching pass and stores the result.
func storedPlan(t *testing.T, store *memoryPlanStore) *matching.Result {
	t.Helper()
	svc := matching.NewService(nil, nil)
	res, err := svc.Match(context.Background(), matching.MatchCommand{
		Passengers: []matching.Passenger{
			passenger("p1", 37.78, -122.42),
			passenger("p2", 37.77, -122.41),
		},
		Drivers: []matching.Driver{
			driver("d1", 37.79, -122.43, 3),
			driver("d2", 37.81, -122.47, 2),
		},
		Event: matching.EventContext{
			Coordinate: types.Point{Lat: 37.7749, Lng: -122.4194},
			Direction:  matching.DirectionFromEvent,
		},
	})
	if err != nil {
		t.Fatalf("seed match failed: %v", err)
	}
	store.put(res)
	return res
}

func groupFor(res *matching.Result, driverID types.ID) *matching.RideGroup {
	for i := range res.RideGroups {
		if res.RideGroups[i].Driver.ID == driverID {
			return &res.RideGroups[i]
		}
	}
	return nil
}

func driverOf(res *matching.Result, passengerID types.ID) types.ID {
	for _, g := range res.RideGroups {
		for _, p := range g.Passengers {
			if p.ID == passengerID {
				return g.Driver.ID
			}
		}
	}
	return ""
}

func TestMovePassenger_BetweenGroups(t *testing.T) {
	store := newMemoryPlanStore()
	seeded := storedPlan(t, store)
	svc := NewService(store, matching.DefaultConfig())

	from := driverOf(seeded, "p1")
	if from == "" {
		t.Fatalf("seed plan did not assign p1")
	}
	var to types.ID = "d2"
	if from == "d2" {
		to = "d1"
	}

	res, err := svc.MovePassenger(context.Background(), MoveCommand{
		PlanID:      seeded.ID,
		PassengerID: "p1",
		ToDriverID:  to,
		Version:     0,
		ActorUID:    "organizer1",
	})
	if err != nil {
		t.Fatalf("MovePassenger() error: %v", err)
	}

	if got := driverOf(res, "p1"); got != to {
		t.Errorf("p1 now rides with %s, want %s", got, to)
	}
	target := groupFor(res, to)
	if len(target.Waypoints) != len(target.Passengers) {
		t.Errorf("moved-into group waypoints not rebuilt")
	}
	for i, wp := range target.Waypoints {
		if wp.StopOrder != i+1 {
			t.Errorf("stop order not sequential after move")
		}
	}
	if len(store.events) != 1 || store.events[0].Action != "move_passenger" {
		t.Errorf("expected one move_passenger audit event, got %+v", store.events)
	}
}

func TestMovePassenger_VersionConflict(t *testing.T) {
	store := newMemoryPlanStore()
	seeded := storedPlan(t, store)
	svc := NewService(store, matching.DefaultConfig())

	_, err := svc.MovePassenger(context.Background(), MoveCommand{
		PlanID:      seeded.ID,
		PassengerID: "p1",
		ToDriverID:  "d2",
		Version:     7,
	})
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}
}

func TestMovePassenger_RespectsSeatCapacity(t *testing.T) {
	store := newMemoryPlanStore()
	svc := NewService(store, matching.DefaultConfig())

	// Hand-build a plan whose target car is already full.
	full := matching.RideGroup{
		ID:         "g1",
		Driver:     driver("d1", 37.79, -122.43, 1),
		Direction:  matching.DirectionFromEvent,
		Passengers: []matching.Passenger{passenger("p1", 37.78, -122.42)},
	}
	other := matching.RideGroup{
		ID:         "g2",
		Driver:     driver("d2", 37.81, -122.47, 2),
		Direction:  matching.DirectionFromEvent,
		Passengers: []matching.Passenger{passenger("p2", 37.77, -122.41)},
	}
	res := &matching.Result{
		ID:            "plan1",
		TripDirection: matching.DirectionFromEvent,
		StartLocation: types.Point{Lat: 37.7749, Lng: -122.4194},
		RideGroups:    []matching.RideGroup{full, other},
	}
	store.put(res)

	_, err := svc.MovePassenger(context.Background(), MoveCommand{
		PlanID:      "plan1",
		PassengerID: "p2",
		ToDriverID:  "d1",
	})
	if err != ErrNoSeats {
		t.Fatalf("expected ErrNoSeats, got %v", err)
	}
}

func TestMovePassenger_FromUnmatchedList(t *testing.T) {
	store := newMemoryPlanStore()
	svc := NewService(store, matching.DefaultConfig())

	res := &matching.Result{
		ID:            "plan1",
		TripDirection: matching.DirectionFromEvent,
		StartLocation: types.Point{Lat: 37.7749, Lng: -122.4194},
		RideGroups: []matching.RideGroup{{
			ID:        "g1",
			Driver:    driver("d1", 37.79, -122.43, 3),
			Direction: matching.DirectionFromEvent,
		}},
		UnmatchedPassengers: []matching.UnmatchedPassenger{{
			Passenger: passenger("p1", 37.78, -122.42),
			Reason:    matching.ReasonNoSeatsAvailable,
		}},
	}
	store.put(res)

	got, err := svc.MovePassenger(context.Background(), MoveCommand{
		PlanID:      "plan1",
		PassengerID: "p1",
		ToDriverID:  "d1",
	})
	if err != nil {
		t.Fatalf("MovePassenger() error: %v", err)
	}
	if len(got.UnmatchedPassengers) != 0 {
		t.Errorf("p1 should leave the unmatched list")
	}
	if driverOf(got, "p1") != "d1" {
		t.Errorf("p1 should now ride with d1")
	}
	if got.Metadata.MatchedPassengers != 1 {
		t.Errorf("matched counter not refreshed, got %d", got.Metadata.MatchedPassengers)
	}
}
