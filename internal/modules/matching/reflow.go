// README: Recompute routing and timing for a manually edited ride group.
package matching

import "carpool/internal/types"

// Reflow rebuilds stop order, per-leg distances, totals and (inbound) the
// schedule for a group whose passenger set was edited outside the engine.
// It spins up a single-driver context so manual overrides reuse the same
// matrix, optimizer and planner as a full run.
func Reflow(group *RideGroup, event EventContext, cfg Config) {
	rc := buildContext(group.Passengers, []Driver{group.Driver}, event, cfg)

	ids := make([]types.ID, len(group.Passengers))
	for i := range group.Passengers {
		ids[i] = group.Passengers[i].ID
	}
	rc.assignments[group.Driver.ID] = ids

	ordered := rc.optimizeStops(group.Driver.ID)
	rc.assignments[group.Driver.ID] = ordered

	reordered := make([]Passenger, 0, len(ordered))
	for _, pid := range ordered {
		reordered = append(reordered, *rc.byPassenger[pid])
	}
	group.Passengers = reordered
	group.Waypoints = rc.buildWaypoints(group.Driver.ID, ordered)

	if len(ordered) > 0 {
		group.TotalRouteDistance = rc.routeDistance(group.Driver.ID, ordered)
		group.TotalDetour = rc.totalDetour(group.Driver.ID, ordered)
	} else {
		group.TotalRouteDistance = 0
		group.TotalDetour = 0
	}

	group.Schedule = nil
	if group.Direction == DirectionToEvent {
		group.Schedule = rc.planSchedule(group.Driver.ID, ordered)
	}
}
