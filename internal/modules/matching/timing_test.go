// README: Inbound timing planner tests.
package matching

import (
	"math"
	"testing"
	"time"

	"carpool/internal/types"
)

func TestPlanSchedule_BackwardFromEventStart(t *testing.T) {
	start := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC)
	p1 := makePassenger("p1", 37.83, -122.45)
	p2 := makePassenger("p2", 37.80, -122.43)
	d := makeDriver("d", 37.85, -122.47, 3)

	ctx := buildContext([]Passenger{p1, p2}, []Driver{d}, inboundEvent(start), DefaultConfig())
	ordered := []types.ID{"p1", "p2"}
	ctx.assignments[d.ID] = ordered

	s := ctx.planSchedule(d.ID, ordered)
	if s == nil {
		t.Fatalf("schedule not produced")
	}

	cfg := DefaultConfig()

	// First pickup: remaining route p1 -> p2 -> event plus one load buffer.
	dist1 := ctx.distance("p1", "p2") + ctx.distance("p2", eventNodeID)
	travel1 := TravelMinutes(dist1, cfg.Timing.TrafficBufferMultiplier)
	want1 := start.Add(-time.Duration((travel1 + cfg.Timing.LoadTimeMinutes) * float64(time.Minute)))
	if !s.Pickups[0].ShouldBeReadyBy.Equal(want1) {
		t.Errorf("p1 ready = %v, want %v", s.Pickups[0].ShouldBeReadyBy, want1)
	}

	// Last pickup carries no load buffer.
	dist2 := ctx.distance("p2", eventNodeID)
	travel2 := TravelMinutes(dist2, cfg.Timing.TrafficBufferMultiplier)
	want2 := start.Add(-time.Duration(travel2 * float64(time.Minute)))
	if !s.Pickups[1].ShouldBeReadyBy.Equal(want2) {
		t.Errorf("p2 ready = %v, want %v", s.Pickups[1].ShouldBeReadyBy, want2)
	}

	// Departure covers the full route plus per-stop load and the safety pad.
	total := ctx.routeDistance(d.ID, ordered)
	travelAll := TravelMinutes(total, cfg.Timing.TrafficBufferMultiplier)
	wantDep := start.Add(-time.Duration((travelAll + 2*cfg.Timing.LoadTimeMinutes + 10) * float64(time.Minute)))
	if got := s.DriverDepartureTime; math.Abs(got.Sub(wantDep).Seconds()) > 1 {
		t.Errorf("departure = %v, want %v", got, wantDep)
	}

	wantArrival := start.Add(-5 * time.Minute)
	if !s.EstimatedArrivalTime.Equal(wantArrival) {
		t.Errorf("arrival = %v, want %v", s.EstimatedArrivalTime, wantArrival)
	}
}

func TestPlanSchedule_LonePassengerNoLoadBuffer(t *testing.T) {
	start := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC)
	p := makePassenger("p", 37.80, -122.43)
	d := makeDriver("d", 37.85, -122.47, 3)

	ctx := buildContext([]Passenger{p}, []Driver{d}, inboundEvent(start), DefaultConfig())
	ctx.assignments[d.ID] = []types.ID{"p"}

	s := ctx.planSchedule(d.ID, []types.ID{"p"})
	cfg := DefaultConfig()
	travel := TravelMinutes(ctx.distance("p", eventNodeID), cfg.Timing.TrafficBufferMultiplier)
	want := start.Add(-time.Duration(travel * float64(time.Minute)))
	if !s.Pickups[0].ShouldBeReadyBy.Equal(want) {
		t.Errorf("lone passenger ready = %v, want %v (no load buffer)", s.Pickups[0].ShouldBeReadyBy, want)
	}
}

func TestPlanSchedule_CoincidentCoordinates(t *testing.T) {
	// Passenger lives at the event: ready time collapses onto the start.
	start := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC)
	p := makePassenger("p", sfEvent.Lat, sfEvent.Lng)
	d := makeDriver("d", 37.85, -122.47, 3)

	ctx := buildContext([]Passenger{p}, []Driver{d}, inboundEvent(start), DefaultConfig())
	ctx.assignments[d.ID] = []types.ID{"p"}

	s := ctx.planSchedule(d.ID, []types.ID{"p"})
	if !s.Pickups[0].ShouldBeReadyBy.Equal(start) {
		t.Errorf("ready = %v, want event start %v", s.Pickups[0].ShouldBeReadyBy, start)
	}
}

func TestPlanSchedule_NoStartTime(t *testing.T) {
	p := makePassenger("p", 37.80, -122.43)
	d := makeDriver("d", 37.85, -122.47, 3)
	event := EventContext{Coordinate: sfEvent, Direction: DirectionToEvent}

	ctx := buildContext([]Passenger{p}, []Driver{d}, event, DefaultConfig())
	ctx.assignments[d.ID] = []types.ID{"p"}

	if s := ctx.planSchedule(d.ID, []types.ID{"p"}); s != nil {
		t.Errorf("schedule without a start time should be nil")
	}
}
