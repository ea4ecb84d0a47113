// README: Phased assignment engine: furthest-first greedy fill plus outbound sweep.
package matching

import (
	"math"
	"sort"

	"carpool/internal/types"
)

// engine drives the assignment phases over a run context. It is the only
// writer of the context ledgers. rejections remembers which matcher turned
// each passenger away, per driver attempt, for unmatched-reason attribution.
type engine struct {
	ctx        *runContext
	rejections map[types.ID]map[string]bool
}

func newEngine(ctx *runContext) *engine {
	return &engine{
		ctx:        ctx,
		rejections: make(map[types.ID]map[string]bool),
	}
}

// run executes the direction-appropriate phases.
func (e *engine) run() {
	drivers := e.sortedDrivers()

	if e.ctx.direction == DirectionFromEvent {
		var earlyDrivers, normalDrivers []*Driver
		for _, d := range drivers {
			if d.LeavingEarly {
				earlyDrivers = append(earlyDrivers, d)
			} else {
				normalDrivers = append(normalDrivers, d)
			}
		}
		for _, d := range earlyDrivers {
			e.fillDriver(d, func(p *Passenger) bool { return p.LeavingEarly })
		}
		for _, d := range normalDrivers {
			e.fillDriver(d, func(p *Passenger) bool { return !p.LeavingEarly })
		}
		e.sweep(drivers)
		return
	}

	for _, d := range drivers {
		e.fillDriver(d, func(*Passenger) bool { return true })
	}
}

// sortedDrivers orders drivers furthest-first by direct distance. Ties go to
// the driver whose gender satisfies more same-gender-preferring passengers;
// the count is materialized once up front.
func (e *engine) sortedDrivers() []*Driver {
	seekers := make(map[Gender]int)
	for i := range e.ctx.passengers {
		p := &e.ctx.passengers[i]
		if p.GenderPreference == PreferSameGender {
			seekers[p.Gender]++
		}
	}

	drivers := make([]*Driver, len(e.ctx.drivers))
	for i := range e.ctx.drivers {
		drivers[i] = &e.ctx.drivers[i]
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		di, dj := e.ctx.direct[drivers[i].ID], e.ctx.direct[drivers[j].ID]
		if di != dj {
			return di > dj
		}
		return seekers[drivers[i].Gender] > seekers[drivers[j].Gender]
	})
	return drivers
}

type scoredCandidate struct {
	p     *Passenger
	score float64
}

// fillDriver scores the eligible candidates for one driver and appends them
// best-first. Outbound stops once scores hit zero; inbound re-checks the
// total-detour cap before every append because earlier appends lengthen the
// route.
func (e *engine) fillDriver(d *Driver, eligible func(*Passenger) bool) {
	ctx := e.ctx

	var scored []scoredCandidate
	for _, p := range ctx.availableInOrder() {
		if !eligible(p) {
			continue
		}
		ps := scorePair(p, d, ctx)
		if ps.rejected {
			e.recordRejection(p.ID, ps.rejectedBy)
			continue
		}
		scored = append(scored, scoredCandidate{p: p, score: ps.total})
	}
	// Stable sort keeps enumeration order on equal scores.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	for _, sc := range scored {
		if ctx.seats[d.ID] <= 0 {
			break
		}
		if ctx.direction == DirectionFromEvent {
			if sc.score <= 0 {
				break
			}
		} else {
			extended := append(append([]types.ID{}, ctx.assignments[d.ID]...), sc.p.ID)
			if ctx.totalDetour(d.ID, extended) > ctx.cfg.MaxDetourMiles {
				continue
			}
		}
		ctx.assign(d.ID, sc.p.ID)
	}
}

// sweep seats every remaining non-early outbound passenger it can: each goes
// to whichever seated driver it detours least, with no detour filter. Early
// leavers are excluded; seating them with a normal driver would break the
// outbound timing constraint. An enforced same-gender preference still
// applies, so a driver the gender matcher rejects is skipped.
func (e *engine) sweep(drivers []*Driver) {
	ctx := e.ctx
	for _, p := range ctx.availableInOrder() {
		if p.LeavingEarly {
			continue
		}
		var best *Driver
		bestDetour := 0.0
		for _, d := range drivers {
			if ctx.seats[d.ID] <= 0 {
				continue
			}
			if gender.score(p, d, ctx).rejected() {
				continue
			}
			inc := ctx.incrementalDetour(d.ID, p.ID)
			// An unmeasurable detour means a missing coordinate somewhere on
			// the route; such a stop cannot be driven.
			if math.IsInf(inc, 1) || math.IsNaN(inc) {
				continue
			}
			if best == nil || inc < bestDetour {
				best = d
				bestDetour = inc
			}
		}
		if best != nil {
			ctx.assign(best.ID, p.ID)
		}
	}
}

func (e *engine) recordRejection(passengerID types.ID, source string) {
	m, ok := e.rejections[passengerID]
	if !ok {
		m = make(map[string]bool)
		e.rejections[passengerID] = m
	}
	m[source] = true
}

// rejectedOnlyBy reports whether every recorded rejection for the passenger
// came from the named matcher, and at least one did.
func (e *engine) rejectedOnlyBy(passengerID types.ID, source string) bool {
	m := e.rejections[passengerID]
	if len(m) == 0 {
		return false
	}
	for s := range m {
		if s != source {
			return false
		}
	}
	return true
}
