// README: Deterministic demo-roster generator around the SF bay.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

// Event pinned in downtown San Francisco; homes scatter around it.
var eventCoord = types.Point{Lat: 37.7749, Lng: -122.4194}

var genders = []matching.Gender{
	matching.GenderMale,
	matching.GenderFemale,
	matching.GenderNonBinary,
	matching.GenderUnspecified,
}

func generate(cfg Config) matching.MatchCommand {
	rng := rand.New(rand.NewSource(cfg.Seed))
	start := time.Date(2026, 6, 13, 18, 0, 0, 0, time.UTC)

	cmd := matching.MatchCommand{
		Event: matching.EventContext{
			Coordinate: eventCoord,
			StartTime:  &start,
			Direction:  matching.Direction(cfg.Direction),
		},
	}

	for i := 0; i < cfg.Passengers; i++ {
		home := scatter(rng, 0.25)
		cmd.Passengers = append(cmd.Passengers, matching.Passenger{
			Person: matching.Person{
				ID:           types.ID(fmt.Sprintf("p%03d", i)),
				Name:         fmt.Sprintf("Passenger %d", i),
				Gender:       genders[rng.Intn(len(genders))],
				Age:          18 + rng.Intn(50),
				Home:         &home,
				LeavingEarly: rng.Intn(10) == 0,
			},
			NeedsRide:        true,
			GenderPreference: matching.PreferAnyGender,
		})
	}
	for i := 0; i < cfg.Drivers; i++ {
		home := scatter(rng, 0.3)
		cmd.Drivers = append(cmd.Drivers, matching.Driver{
			Person: matching.Person{
				ID:     types.ID(fmt.Sprintf("d%03d", i)),
				Name:   fmt.Sprintf("Driver %d", i),
				Gender: genders[rng.Intn(len(genders))],
				Age:    21 + rng.Intn(45),
				Home:   &home,
			},
			CanDrive:       true,
			AvailableSeats: 1 + rng.Intn(4),
		})
	}
	return cmd
}

func scatter(rng *rand.Rand, spread float64) types.Point {
	return types.Point{
		Lat: eventCoord.Lat + (rng.Float64()-0.5)*spread,
		Lng: eventCoord.Lng + (rng.Float64()-0.5)*spread,
	}
}
