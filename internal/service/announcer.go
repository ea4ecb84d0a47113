// README: Announcer orchestrates quota, plan lookup and AI text generation.
package service

import (
	"context"
	"fmt"
	"strings"

	"carpool/internal/ai"
	"carpool/internal/modules/aiquota"
	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

// PlanReader loads stored match results.
type PlanReader interface {
	Get(ctx context.Context, id types.ID) (*matching.Result, error)
}

// Announcer turns a stored ride plan into a short message an organizer can
// post to the event channel.
type Announcer struct {
	plans  PlanReader
	quota  *aiquota.Service
	writer ai.Writer
}

func NewAnnouncer(plans PlanReader, quota *aiquota.Service, writer ai.Writer) *Announcer {
	return &Announcer{plans: plans, quota: quota, writer: writer}
}

// Announce deducts one quota credit, loads the plan and asks the writer for
// the announcement text. Quota errors pass through unwrapped so callers can
// map them.
func (a *Announcer) Announce(ctx context.Context, uid string, planID types.ID) (string, error) {
	if a.quota != nil {
		if err := a.quota.UseCredit(ctx, uid); err != nil {
			return "", err
		}
	}
	res, err := a.plans.Get(ctx, planID)
	if err != nil {
		return "", err
	}
	text, err := a.writer.Write(ctx, buildPrompt(res))
	if err != nil {
		return "", fmt.Errorf("announcement generation: %w", err)
	}
	return text, nil
}

// buildPrompt flattens the plan into a compact factual brief. The model is
// asked to rephrase, not to invent: every name, time and count is in the
// prompt.
func buildPrompt(res *matching.Result) string {
	var b strings.Builder
	b.WriteString("You write short, friendly carpool announcements for a community event.\n")
	b.WriteString("Summarize the following ride plan in under 150 words. Do not invent details.\n\n")

	if res.TripDirection == matching.DirectionToEvent {
		b.WriteString("Trip: homes to the event.\n")
	} else {
		b.WriteString("Trip: event to homes.\n")
	}
	if res.EventStartTime != nil {
		fmt.Fprintf(&b, "Event starts at %s.\n", res.EventStartTime.Format("15:04 MST"))
	}

	for _, g := range res.RideGroups {
		if len(g.Passengers) == 0 {
			continue
		}
		names := make([]string, 0, len(g.Passengers))
		for _, p := range g.Passengers {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "Car of %s: %s.\n", g.Driver.Name, strings.Join(names, ", "))
		if g.Schedule != nil {
			fmt.Fprintf(&b, "  Departs %s, arrives %s.\n",
				g.Schedule.DriverDepartureTime.Format("15:04"),
				g.Schedule.EstimatedArrivalTime.Format("15:04"))
		}
	}
	if len(res.UnmatchedPassengers) > 0 {
		names := make([]string, 0, len(res.UnmatchedPassengers))
		for _, u := range res.UnmatchedPassengers {
			names = append(names, u.Name)
		}
		fmt.Fprintf(&b, "Still needing a ride: %s.\n", strings.Join(names, ", "))
	}
	return b.String()
}
