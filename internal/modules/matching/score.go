// README: Weighted aggregation of matcher scores with hard-reject short-circuit.
package matching

// pairScore is the aggregate outcome for one (passenger, driver) pair.
// rejectedBy names the matcher that short-circuited, for unmatched-reason
// attribution.
type pairScore struct {
	total      float64
	rejected   bool
	rejectedBy string
}

var (
	timing     timingMatcher
	early      earlyDepartureMatcher
	capacity   capacityMatcher
	efficiency routeEfficiencyMatcher
	preference driverPreferenceMatcher
	detour     detourMatcher
	gender     genderMatcher
	age        ageMatcher
)

// scorePair runs the matchers against one pair. Hard rejects stop evaluation
// in priority order: timing, then route efficiency, then gender. The detour
// matcher may also reject (inbound cap); capacity acts purely as a gate. The
// early-departure score is computed and added only when its weight is above
// zero (it is zero by default), and the capacity fill bias never enters the
// weighted total.
func scorePair(p *Passenger, d *Driver, ctx *runContext) pairScore {
	if s := timing.score(p, d, ctx); s.rejected() {
		return pairScore{rejected: true, rejectedBy: timing.name()}
	}

	sRoute := efficiency.score(p, d, ctx)
	if sRoute.rejected() {
		return pairScore{rejected: true, rejectedBy: efficiency.name()}
	}

	sGender := gender.score(p, d, ctx)
	if sGender.rejected() {
		return pairScore{rejected: true, rejectedBy: gender.name()}
	}

	sDetour := detour.score(p, d, ctx)
	if sDetour.rejected() {
		return pairScore{rejected: true, rejectedBy: detour.name()}
	}

	if s := capacity.score(p, d, ctx); s.rejected() {
		return pairScore{rejected: true, rejectedBy: capacity.name()}
	}

	sAge := age.score(p, d, ctx)
	sPref := preference.score(p, d, ctx)

	w := ctx.cfg.Weights
	total := w.RouteEfficiency*sRoute.value +
		w.Detour*sDetour.value +
		w.GenderMatch*sGender.value +
		w.AgeMatch*sAge.value +
		w.DriverPreference*sPref.value

	if w.EarlyDeparture > 0 {
		total += w.EarlyDeparture * early.score(p, d, ctx).value
	}

	return pairScore{total: total}
}
