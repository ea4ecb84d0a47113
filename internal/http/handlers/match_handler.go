// README: Match handlers: run a matching pass, fetch stored results.
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/modules/location"
	"carpool/internal/modules/matching"
	"carpool/internal/types"
)

// Resolver pre-resolves street addresses before the core runs; nil disables
// address support (coordinates only).
type Resolver interface {
	Resolve(ctx context.Context, address string) (location.Resolved, error)
}

type MatchHandler struct {
	matching *matching.Service
	resolver Resolver
}

func NewMatchHandler(svc *matching.Service, resolver Resolver) *MatchHandler {
	return &MatchHandler{matching: svc, resolver: resolver}
}

type personReq struct {
	ID                 string     `json:"id" binding:"required"`
	Name               string     `json:"name" binding:"required"`
	Gender             string     `json:"gender" binding:"omitempty,oneof=male female non_binary prefer_not_to_say"`
	Age                int        `json:"age" binding:"required,gte=18"`
	Address            string     `json:"address"`
	Lat                *float64   `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng                *float64   `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	LeavingEarly       bool       `json:"leaving_early"`
	EarlyDepartureTime *time.Time `json:"early_departure_time"`
}

type passengerReq struct {
	personReq
	NeedsRide        bool   `json:"needs_ride"`
	GenderPreference string `json:"gender_preference" binding:"omitempty,oneof=same_gender any"`
}

type driverReq struct {
	personReq
	CanDrive       bool `json:"can_drive"`
	AvailableSeats int  `json:"available_seats" binding:"omitempty,gte=0"`
}

type eventReq struct {
	Address   string     `json:"address"`
	Lat       *float64   `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng       *float64   `json:"lng" binding:"omitempty,gte=-180,lte=180"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Direction string     `json:"direction" binding:"required,oneof=to_event from_event"`
}

type matchRequest struct {
	Passengers []passengerReq      `json:"passengers" binding:"omitempty,dive"`
	Drivers    []driverReq         `json:"drivers" binding:"omitempty,dive"`
	Event      eventReq            `json:"event" binding:"required"`
	Overrides  *matching.Overrides `json:"config_overrides"`
}

// Create runs one matching pass. Addresses are resolved here, before the
// core is entered; a person whose address cannot be resolved keeps a nil
// home coordinate and surfaces downstream as infeasible rather than
// failing the whole request.
func (h *MatchHandler) Create(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	eventCoord := h.resolvePoint(c.Request.Context(), req.Event.Lat, req.Event.Lng, req.Event.Address)
	if eventCoord == nil {
		writeError(c, http.StatusBadRequest, "event location could not be resolved")
		return
	}

	cmd := matching.MatchCommand{
		Event: matching.EventContext{
			Coordinate: *eventCoord,
			StartTime:  req.Event.StartTime,
			EndTime:    req.Event.EndTime,
			Direction:  matching.Direction(req.Event.Direction),
		},
		Overrides: req.Overrides,
	}
	for _, p := range req.Passengers {
		cmd.Passengers = append(cmd.Passengers, matching.Passenger{
			Person:           h.toPerson(c.Request.Context(), p.personReq),
			NeedsRide:        p.NeedsRide,
			GenderPreference: genderPreference(p.GenderPreference),
		})
	}
	for _, d := range req.Drivers {
		cmd.Drivers = append(cmd.Drivers, matching.Driver{
			Person:         h.toPerson(c.Request.Context(), d.personReq),
			CanDrive:       d.CanDrive,
			AvailableSeats: d.AvailableSeats,
		})
	}

	res, err := h.matching.Match(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, res)
}

// Get returns a stored result by id.
func (h *MatchHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing match id")
		return
	}
	res, err := h.matching.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *MatchHandler) toPerson(ctx context.Context, p personReq) matching.Person {
	person := matching.Person{
		ID:                 types.ID(p.ID),
		Name:               p.Name,
		Gender:             gender(p.Gender),
		Age:                p.Age,
		Home:               h.resolvePoint(ctx, p.Lat, p.Lng, p.Address),
		LeavingEarly:       p.LeavingEarly,
		EarlyDepartureTime: p.EarlyDepartureTime,
	}
	return person
}

func (h *MatchHandler) resolvePoint(ctx context.Context, lat, lng *float64, address string) *types.Point {
	if lat != nil && lng != nil {
		return &types.Point{Lat: *lat, Lng: *lng}
	}
	if address == "" || h.resolver == nil {
		return nil
	}
	resolved, err := h.resolver.Resolve(ctx, address)
	if err != nil {
		log.Printf("match: geocode %q failed: %v", address, err)
		return nil
	}
	coord := resolved.Coordinate
	return &coord
}

func gender(v string) matching.Gender {
	if v == "" {
		return matching.GenderUnspecified
	}
	return matching.Gender(v)
}

func genderPreference(v string) matching.GenderPreference {
	if v == "" {
		return matching.PreferAnyGender
	}
	return matching.GenderPreference(v)
}
