// README: The per-pair scorers. Each is pure and read-only over the context.
package matching

import (
	"math"
	"time"

	"carpool/internal/types"
)

type verdict int

const (
	verdictAccept verdict = iota
	verdictSoftPenalty
	verdictHardReject
)

// matchScore is one matcher's opinion on a (passenger, driver) pair.
// A hard reject carries no usable value.
type matchScore struct {
	value   float64
	verdict verdict
}

func accept(v float64) matchScore      { return matchScore{value: v} }
func softPenalty(v float64) matchScore { return matchScore{value: v, verdict: verdictSoftPenalty} }
func hardReject() matchScore           { return matchScore{verdict: verdictHardReject} }

func (s matchScore) rejected() bool { return s.verdict == verdictHardReject }

// matcher scores one (passenger, driver) pair. Lower priority runs earlier.
type matcher interface {
	name() string
	priority() int
	score(p *Passenger, d *Driver, ctx *runContext) matchScore
}

// priorityOrder lists matcher names in evaluation priority for run metadata.
func priorityOrder() []string {
	return []string{
		"timing",
		"early_departure",
		"capacity",
		"route_efficiency",
		"driver_preference",
		"detour",
		"gender",
		"age",
	}
}

// ---------------------------------------------------------------------------
// timingMatcher (priority 0)
// ---------------------------------------------------------------------------

// timingMatcher owns the hard timing constraints. Outbound it partitions by
// the leaving-early flag; inbound it sanity-checks how early the pickup would
// have to happen for this passenger alone.
type timingMatcher struct{}

func (timingMatcher) name() string  { return "timing" }
func (timingMatcher) priority() int { return 0 }

func (timingMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	if ctx.direction == DirectionFromEvent {
		if p.LeavingEarly != d.LeavingEarly {
			return hardReject()
		}
		if p.LeavingEarly {
			// Driver not yet ready to leave when the passenger must go.
			if p.EarlyDepartureTime != nil && d.EarlyDepartureTime != nil &&
				p.EarlyDepartureTime.Before(*d.EarlyDepartureTime) {
				return hardReject()
			}
			return accept(1.0)
		}
		return accept(0.5)
	}

	if ctx.event.StartTime == nil {
		return accept(0.5)
	}
	start := *ctx.event.StartTime

	// Tentative pickup using only this passenger's own home->event leg.
	toEvent := ctx.distance(p.ID, eventNodeID)
	travel := TravelMinutes(toEvent, ctx.cfg.Timing.TrafficBufferMultiplier)
	if math.IsInf(travel, 1) {
		return hardReject()
	}
	pickup := start.Add(-time.Duration((travel + ctx.cfg.Timing.LoadTimeMinutes) * float64(time.Minute)))

	// Hour bounds evaluated in UTC for determinism.
	eventHour := start.UTC().Hour()
	pickupHour := pickup.UTC().Hour()
	if eventHour < 12 && pickupHour < 5 {
		return hardReject()
	}
	if eventHour >= 12 && pickupHour < 6 {
		return hardReject()
	}
	return accept(0.7)
}

// ---------------------------------------------------------------------------
// earlyDepartureMatcher (priority 1)
// ---------------------------------------------------------------------------

// earlyDepartureMatcher is informational: its weight defaults to zero and its
// mismatch branch sits behind the timing matcher's hard reject, so it never
// fires. Kept so the flag can contribute a component score when its weight
// is raised above zero.
type earlyDepartureMatcher struct{}

func (earlyDepartureMatcher) name() string  { return "early_departure" }
func (earlyDepartureMatcher) priority() int { return 1 }

func (earlyDepartureMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	if ctx.direction == DirectionToEvent {
		return accept(0.5)
	}
	switch {
	case p.LeavingEarly && d.LeavingEarly:
		return accept(1.0)
	case !p.LeavingEarly && !d.LeavingEarly:
		return accept(0.5)
	default:
		return softPenalty(0.1)
	}
}

// ---------------------------------------------------------------------------
// capacityMatcher (priority 2)
// ---------------------------------------------------------------------------

// capacityMatcher rejects full cars and biases toward topping off
// partially-filled ones.
type capacityMatcher struct{}

func (capacityMatcher) name() string  { return "capacity" }
func (capacityMatcher) priority() int { return 2 }

func (capacityMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	remaining := ctx.seats[d.ID]
	if remaining <= 0 {
		return hardReject()
	}
	fillRatio := float64(d.AvailableSeats-remaining) / float64(d.AvailableSeats)
	return accept(0.5 + 0.5*fillRatio)
}

// ---------------------------------------------------------------------------
// routeEfficiencyMatcher (priority 3)
// ---------------------------------------------------------------------------

// routeEfficiencyMatcher compares the direct route against the one-passenger
// dogleg origin -> passenger -> destination.
type routeEfficiencyMatcher struct{}

func (routeEfficiencyMatcher) name() string  { return "route_efficiency" }
func (routeEfficiencyMatcher) priority() int { return 3 }

func (routeEfficiencyMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	direct := ctx.direct[d.ID]

	var withStop float64
	if ctx.direction == DirectionFromEvent {
		withStop = ctx.distance(eventNodeID, p.ID) + ctx.distance(p.ID, d.ID)
	} else {
		withStop = ctx.distance(d.ID, p.ID) + ctx.distance(p.ID, eventNodeID)
	}
	if math.IsInf(direct, 1) || math.IsInf(withStop, 1) {
		return hardReject()
	}
	if ctx.direction == DirectionToEvent && withStop-direct > ctx.cfg.MaxDetourMiles {
		return hardReject()
	}
	if withStop == 0 {
		// Everyone lives at the event. Perfectly efficient, technically.
		return accept(1.0)
	}
	efficiency := direct / withStop
	return accept(clamp01((efficiency - 0.5) * 2))
}

// ---------------------------------------------------------------------------
// driverPreferenceMatcher (priority 4)
// ---------------------------------------------------------------------------

// driverPreferenceMatcher is reserved for driver-declared preferences.
type driverPreferenceMatcher struct{}

func (driverPreferenceMatcher) name() string  { return "driver_preference" }
func (driverPreferenceMatcher) priority() int { return 4 }

func (driverPreferenceMatcher) score(_ *Passenger, _ *Driver, _ *runContext) matchScore {
	return accept(0.5)
}

// ---------------------------------------------------------------------------
// detourMatcher (priority 5)
// ---------------------------------------------------------------------------

// detourMatcher measures what appending this passenger to the driver's
// current stop list costs, and inbound enforces the total-detour cap.
type detourMatcher struct{}

func (detourMatcher) name() string  { return "detour" }
func (detourMatcher) priority() int { return 5 }

func (detourMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	current := ctx.assignments[d.ID]
	extended := make([]types.ID, 0, len(current)+1)
	extended = append(extended, current...)
	extended = append(extended, p.ID)

	incremental := ctx.routeDistance(d.ID, extended) - ctx.routeDistance(d.ID, current)
	total := ctx.totalDetour(d.ID, extended)

	// Inf or NaN means a coordinate on the route is unknown: the detour is
	// unmeasurable. Outbound that is a soft penalty, inbound a reject.
	if math.IsInf(incremental, 1) || math.IsNaN(incremental) {
		if ctx.direction == DirectionToEvent {
			return hardReject()
		}
		return softPenalty(0.1)
	}
	if ctx.direction == DirectionToEvent && total > ctx.cfg.MaxDetourMiles {
		return hardReject()
	}
	return accept(clamp01(1 - incremental/ctx.cfg.MaxDetourMiles))
}

// ---------------------------------------------------------------------------
// genderMatcher (priority 6)
// ---------------------------------------------------------------------------

// genderMatcher applies the passenger's gender preference; enforcement turns
// the miss into a hard reject, otherwise it is a soft penalty.
type genderMatcher struct{}

func (genderMatcher) name() string  { return "gender" }
func (genderMatcher) priority() int { return 6 }

func (genderMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	matched := p.Gender == GenderUnspecified || d.Gender == GenderUnspecified ||
		p.Gender == d.Gender

	if matched {
		return accept(1.0)
	}
	if p.GenderPreference == PreferSameGender {
		if ctx.cfg.EnforceGenderPreference {
			return hardReject()
		}
		return softPenalty(0.2)
	}
	// Genders differ under an "any" preference.
	return accept(0.6)
}

// ---------------------------------------------------------------------------
// ageMatcher (priority 7)
// ---------------------------------------------------------------------------

// ageMatcher prefers riders within the configured age band of the driver and
// decays gently outside it. Never rejects.
type ageMatcher struct{}

func (ageMatcher) name() string  { return "age" }
func (ageMatcher) priority() int { return 7 }

func (ageMatcher) score(p *Passenger, d *Driver, ctx *runContext) matchScore {
	delta := math.Abs(float64(p.Age - d.Age))
	band := ctx.cfg.GroupByAgeRange
	if delta <= band {
		return accept(1 - 0.5*delta/band)
	}
	return accept(math.Max(0.1, 0.5-(delta-band)/50))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
