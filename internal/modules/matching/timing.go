// README: Inbound timing planner: backward computation from event start.
package matching

import (
	"time"

	"carpool/internal/types"
)

const (
	// departureSafetyMinutes pads the driver's departure beyond the modeled
	// drive and load time.
	departureSafetyMinutes = 10
	// arrivalMarginMinutes is how far before the event start each car is
	// planned to arrive.
	arrivalMarginMinutes = 5
)

// planSchedule computes the inbound schedule for one ordered group: a ready
// time per passenger, the driver's departure time, and the estimated
// arrival. Returns nil when there is nothing to plan (no passengers or no
// event start time).
func (c *runContext) planSchedule(driverID types.ID, ordered []types.ID) *GroupSchedule {
	if len(ordered) == 0 || c.event.StartTime == nil {
		return nil
	}
	start := *c.event.StartTime
	buffer := c.cfg.Timing.TrafficBufferMultiplier
	loadMin := c.cfg.Timing.LoadTimeMinutes
	n := len(ordered)

	// Each passenger must be ready when the car reaches them: drive time for
	// the remaining legs to the event, plus a load buffer per later stop.
	// The last (and a lone) passenger gets no load buffer, and a zero
	// remaining distance collapses the ready time onto the event start.
	pickups := make([]PassengerPickup, 0, n)
	for k, pid := range ordered {
		distToEvent := 0.0
		node := pid
		for _, next := range ordered[k+1:] {
			distToEvent += c.distance(node, next)
			node = next
		}
		distToEvent += c.distance(node, eventNodeID)

		travelMin := TravelMinutes(distToEvent, buffer)
		loadBuf := float64(n-1-k) * loadMin
		pickups = append(pickups, PassengerPickup{
			PassengerID:     pid,
			ShouldBeReadyBy: start.Add(-minutes(travelMin + loadBuf)),
		})
	}

	totalRoute := c.routeDistance(driverID, ordered)
	departure := start.
		Add(-minutes(TravelMinutes(totalRoute, buffer))).
		Add(-minutes(float64(n) * loadMin)).
		Add(-minutes(departureSafetyMinutes))

	return &GroupSchedule{
		DriverDepartureTime:  departure,
		Pickups:              pickups,
		EstimatedArrivalTime: start.Add(-minutes(arrivalMarginMinutes)),
	}
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
