// README: Domain entities and result types for carpool matching.
package matching

import (
	"time"

	"carpool/internal/types"
)

type Direction string

const (
	// DirectionToEvent is an inbound trip: homes -> event. Route origin is the driver's home.
	DirectionToEvent Direction = "to_event"
	// DirectionFromEvent is an outbound trip: event -> homes. Route origin is the event.
	DirectionFromEvent Direction = "from_event"
)

type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderNonBinary   Gender = "non_binary"
	GenderUnspecified Gender = "prefer_not_to_say"
)

type GenderPreference string

const (
	PreferSameGender GenderPreference = "same_gender"
	PreferAnyGender  GenderPreference = "any"
)

// Person carries the attributes shared by passengers and drivers.
// Home is nil when the address could not be resolved; the context builder
// turns that into +Inf matrix entries rather than failing the run.
type Person struct {
	ID                 types.ID     `json:"id"`
	Name               string       `json:"name"`
	Gender             Gender       `json:"gender"`
	Age                int          `json:"age"`
	Home               *types.Point `json:"home_coordinate,omitempty"`
	LeavingEarly       bool         `json:"leaving_early"`
	EarlyDepartureTime *time.Time   `json:"early_departure_time,omitempty"`
}

type Passenger struct {
	Person
	NeedsRide        bool             `json:"needs_ride"`
	GenderPreference GenderPreference `json:"gender_preference"`
}

type Driver struct {
	Person
	CanDrive       bool `json:"can_drive"`
	AvailableSeats int  `json:"available_seats"`
}

// EventContext describes the event endpoint of every route in a run.
type EventContext struct {
	Coordinate types.Point `json:"coordinate"`
	StartTime  *time.Time  `json:"start_time,omitempty"`
	EndTime    *time.Time  `json:"end_time,omitempty"`
	Direction  Direction   `json:"direction"`
}

// Waypoint is one stop on a driver's route. StopOrder runs 1..N in driving
// order. DropOffOrder is set on outbound trips, PickupOrder on inbound ones;
// both mirror StopOrder.
type Waypoint struct {
	PassengerID        types.ID    `json:"passenger_id"`
	Name               string      `json:"name"`
	Coordinate         types.Point `json:"coordinate"`
	StopOrder          int         `json:"stop_order"`
	DropOffOrder       *int        `json:"drop_off_order,omitempty"`
	PickupOrder        *int        `json:"pickup_order,omitempty"`
	DetourAdded        float64     `json:"detour_added_miles"`
	DistanceFromOrigin float64     `json:"distance_from_origin_miles"`
}

// PassengerPickup pairs a passenger with the latest instant they must be
// ready at their door.
type PassengerPickup struct {
	PassengerID     types.ID  `json:"passenger_id"`
	ShouldBeReadyBy time.Time `json:"should_be_ready_by"`
}

// GroupSchedule is the inbound timing plan for one car.
type GroupSchedule struct {
	DriverDepartureTime  time.Time         `json:"driver_departure_time"`
	Pickups              []PassengerPickup `json:"pickups"`
	EstimatedArrivalTime time.Time         `json:"estimated_arrival_time"`
}

type RideGroup struct {
	ID                 types.ID       `json:"id"`
	Driver             Driver         `json:"driver"`
	Passengers         []Passenger    `json:"passengers"`
	Direction          Direction      `json:"direction"`
	TotalRouteDistance float64        `json:"total_route_distance_miles"`
	TotalDetour        float64        `json:"total_detour_miles"`
	Waypoints          []Waypoint     `json:"waypoints"`
	Schedule           *GroupSchedule `json:"schedule,omitempty"`
}

// UnmatchedReason values are stable strings consumed by clients.
type UnmatchedReason string

const (
	ReasonNoAvailableDrivers     UnmatchedReason = "no_available_drivers"
	ReasonExceedsDetourLimit     UnmatchedReason = "exceeds_detour_limit"
	ReasonGenderPreferenceUnmet  UnmatchedReason = "gender_preference_unmet"
	ReasonNoSeatsAvailable       UnmatchedReason = "no_seats_available"
	ReasonCheckedInTooLate       UnmatchedReason = "checked_in_too_late"
	ReasonEarlyDepartureMismatch UnmatchedReason = "early_departure_mismatch"
	ReasonCannotArriveOnTime     UnmatchedReason = "cannot_arrive_on_time"
)

// suggestedActions maps each reason to a short organizer-facing hint.
var suggestedActions = map[UnmatchedReason]string{
	ReasonNoAvailableDrivers:     "Ask more attendees to volunteer as drivers.",
	ReasonExceedsDetourLimit:     "Raise the detour limit or find a closer driver.",
	ReasonGenderPreferenceUnmet:  "Recruit a driver matching the preference, or relax enforcement.",
	ReasonNoSeatsAvailable:       "Add a driver or increase seats on an existing car.",
	ReasonCheckedInTooLate:       "Check in earlier next time; seats were already allocated.",
	ReasonEarlyDepartureMismatch: "Find a driver who is also leaving early.",
	ReasonCannotArriveOnTime:     "The pickup would be unreasonably early; consider other transport.",
}

type UnmatchedPassenger struct {
	Passenger
	Reason          UnmatchedReason `json:"reason"`
	SuggestedAction string          `json:"suggested_action"`
}

// Metadata summarizes one matching run.
type Metadata struct {
	TotalPassengers    int       `json:"total_passengers"`
	TotalDrivers       int       `json:"total_drivers"`
	MatchedPassengers  int       `json:"matched_passengers"`
	MatchedDrivers     int       `json:"matched_drivers"`
	MatchingDurationMs int64     `json:"matching_duration_ms"`
	AlgorithmVersion   string    `json:"algorithm_version"`
	PriorityOrder      []string  `json:"priority_order"`
	TripDirection      Direction `json:"trip_direction"`
}

type Result struct {
	ID                  types.ID             `json:"id"`
	TripDirection       Direction            `json:"trip_direction"`
	StartLocation       types.Point          `json:"start_location"`
	EventStartTime      *time.Time           `json:"event_start_time,omitempty"`
	RideGroups          []RideGroup          `json:"ride_groups"`
	UnmatchedPassengers []UnmatchedPassenger `json:"unmatched_passengers"`
	UnmatchedDrivers    []Driver             `json:"unmatched_drivers"`
	Metadata            Metadata             `json:"metadata"`
}
