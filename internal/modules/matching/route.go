// README: Greedy nearest-neighbor stop ordering and waypoint construction.
package matching

import "carpool/internal/types"

// optimizeStops reorders a driver's assigned passengers by greedy nearest
// neighbor from the route origin (event when outbound, the driver's home
// when inbound) and returns the new order. Ties and unknown distances keep
// the earlier passenger first, so the result is deterministic.
func (c *runContext) optimizeStops(driverID types.ID) []types.ID {
	assigned := c.assignments[driverID]
	if len(assigned) < 2 {
		return assigned
	}

	remaining := append([]types.ID{}, assigned...)
	ordered := make([]types.ID, 0, len(assigned))

	current := eventNodeID
	if c.direction == DirectionToEvent {
		current = driverID
	}

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := c.distance(current, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := c.distance(current, remaining[i]); d < bestDist {
				bestIdx, bestDist = i, d
			}
		}
		current = remaining[bestIdx]
		ordered = append(ordered, current)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return ordered
}

// buildWaypoints walks the optimized stop order assigning sequential stop
// numbers and per-leg distances. StopOrder mirrors into DropOffOrder on
// outbound trips and PickupOrder on inbound ones.
func (c *runContext) buildWaypoints(driverID types.ID, ordered []types.ID) []Waypoint {
	waypoints := make([]Waypoint, 0, len(ordered))

	prev := eventNodeID
	if c.direction == DirectionToEvent {
		prev = driverID
	}

	cumulative := 0.0
	for i, pid := range ordered {
		leg := c.distance(prev, pid)
		cumulative += leg

		p := c.byPassenger[pid]
		wp := Waypoint{
			PassengerID:        pid,
			Name:               p.Name,
			StopOrder:          i + 1,
			DetourAdded:        leg,
			DistanceFromOrigin: cumulative,
		}
		if p.Home != nil {
			wp.Coordinate = *p.Home
		}
		order := i + 1
		if c.direction == DirectionFromEvent {
			wp.DropOffOrder = &order
		} else {
			wp.PickupOrder = &order
		}
		waypoints = append(waypoints, wp)
		prev = pid
	}
	return waypoints
}
