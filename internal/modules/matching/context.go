// README: Per-run context: distance matrix, direct distances, mutable ledgers.
package matching

import (
	"math"

	"carpool/internal/types"
)

// eventNodeID is the sentinel identifier of the event location inside the
// distance matrix.
const eventNodeID types.ID = "event"

// runContext holds everything one matching run needs. The matrix, direct
// distances and config are immutable after buildContext; only the assignment
// engine mutates the ledgers. The context never outlives the Match call.
type runContext struct {
	direction Direction
	event     EventContext
	cfg       Config

	// Immutable section.
	index       map[types.ID]int // dense node index: event, passengers, drivers
	dist        [][]float64      // miles; +Inf where a coordinate is missing
	direct      map[types.ID]float64
	passengers  []Passenger // filtered, input order
	drivers     []Driver    // filtered, input order
	byPassenger map[types.ID]*Passenger

	// Mutable ledgers.
	available   map[types.ID]bool
	seats       map[types.ID]int
	assignments map[types.ID][]types.ID
}

// buildContext precomputes the square distance matrix over
// {event} ∪ passengers ∪ drivers and initializes the ledgers. Inputs must
// already be filtered to needsRide passengers and drivable drivers.
func buildContext(passengers []Passenger, drivers []Driver, event EventContext, cfg Config) *runContext {
	n := 1 + len(passengers) + len(drivers)

	ctx := &runContext{
		direction:   event.Direction,
		event:       event,
		cfg:         cfg,
		index:       make(map[types.ID]int, n),
		direct:      make(map[types.ID]float64, len(drivers)),
		passengers:  passengers,
		drivers:     drivers,
		byPassenger: make(map[types.ID]*Passenger, len(passengers)),
		available:   make(map[types.ID]bool, len(passengers)),
		seats:       make(map[types.ID]int, len(drivers)),
		assignments: make(map[types.ID][]types.ID, len(drivers)),
	}

	coords := make([]*types.Point, 0, n)
	ctx.index[eventNodeID] = 0
	ev := event.Coordinate
	coords = append(coords, &ev)

	for i := range passengers {
		p := &passengers[i]
		ctx.index[p.ID] = len(coords)
		coords = append(coords, p.Home)
		ctx.byPassenger[p.ID] = p
		ctx.available[p.ID] = true
	}
	for i := range drivers {
		d := &drivers[i]
		ctx.index[d.ID] = len(coords)
		coords = append(coords, d.Home)
		ctx.seats[d.ID] = d.AvailableSeats
		ctx.assignments[d.ID] = nil
	}

	ctx.dist = make([][]float64, n)
	for i := 0; i < n; i++ {
		ctx.dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			switch {
			case i == j:
				ctx.dist[i][j] = 0
			case coords[i] == nil || coords[j] == nil:
				ctx.dist[i][j] = math.Inf(1)
			default:
				ctx.dist[i][j] = RoadMiles(coords[i].Lat, coords[i].Lng, coords[j].Lat, coords[j].Lng)
			}
		}
	}

	// Direct distance is the driver's route with no passengers:
	// event->home outbound, home->event inbound. The matrix is symmetric so
	// one lookup serves both.
	for i := range drivers {
		d := &drivers[i]
		ctx.direct[d.ID] = ctx.distance(eventNodeID, d.ID)
	}

	return ctx
}

// distance returns road miles between two matrix nodes, +Inf for unknown ids
// or missing coordinates.
func (c *runContext) distance(from, to types.ID) float64 {
	i, ok := c.index[from]
	if !ok {
		return math.Inf(1)
	}
	j, ok := c.index[to]
	if !ok {
		return math.Inf(1)
	}
	return c.dist[i][j]
}

// routeNodes expands a driver's stop list into the full node sequence
// origin -> stops... -> terminus for the run's direction.
func (c *runContext) routeNodes(driverID types.ID, stops []types.ID) []types.ID {
	nodes := make([]types.ID, 0, len(stops)+2)
	if c.direction == DirectionFromEvent {
		nodes = append(nodes, eventNodeID)
		nodes = append(nodes, stops...)
		nodes = append(nodes, driverID)
	} else {
		nodes = append(nodes, driverID)
		nodes = append(nodes, stops...)
		nodes = append(nodes, eventNodeID)
	}
	return nodes
}

// routeDistance is the summed leg distance of origin -> stops... -> terminus.
func (c *runContext) routeDistance(driverID types.ID, stops []types.ID) float64 {
	nodes := c.routeNodes(driverID, stops)
	total := 0.0
	for i := 1; i < len(nodes); i++ {
		total += c.distance(nodes[i-1], nodes[i])
	}
	return total
}

// totalDetour is route distance minus the driver's direct distance, floored
// at zero to absorb float noise on passenger-free routes.
func (c *runContext) totalDetour(driverID types.ID, stops []types.ID) float64 {
	d := c.routeDistance(driverID, stops) - c.direct[driverID]
	if d < 0 {
		return 0
	}
	return d
}

// incrementalDetour is the extra distance appending passengerID to the
// driver's current assignment would add.
func (c *runContext) incrementalDetour(driverID, passengerID types.ID) float64 {
	current := c.assignments[driverID]
	extended := make([]types.ID, 0, len(current)+1)
	extended = append(extended, current...)
	extended = append(extended, passengerID)
	return c.routeDistance(driverID, extended) - c.routeDistance(driverID, current)
}

// assign records a passenger->driver assignment in the ledgers.
func (c *runContext) assign(driverID, passengerID types.ID) {
	delete(c.available, passengerID)
	c.assignments[driverID] = append(c.assignments[driverID], passengerID)
	c.seats[driverID]--
}

// remainingSeats sums seats across all drivers.
func (c *runContext) remainingSeats() int {
	total := 0
	for _, s := range c.seats {
		total += s
	}
	return total
}

// availableInOrder returns the still-unassigned passengers in input order,
// keeping every iteration deterministic.
func (c *runContext) availableInOrder() []*Passenger {
	out := make([]*Passenger, 0, len(c.available))
	for i := range c.passengers {
		p := &c.passengers[i]
		if c.available[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
