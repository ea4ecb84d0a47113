// README: Stored ride plans and manual-override audit events.
package plan

import (
	"errors"
	"time"

	"carpool/internal/types"
)

var (
	ErrNotFound   = errors.New("plan not found")
	ErrConflict   = errors.New("plan version conflict")
	ErrBadRequest = errors.New("bad request")
	ErrNoSeats    = errors.New("target car has no free seats")
)

// Event is one audit row for a manual override on a plan.
type Event struct {
	ID          types.ID  `json:"id"`
	PlanID      types.ID  `json:"plan_id"`
	Action      string    `json:"action"`
	PassengerID types.ID  `json:"passenger_id"`
	FromDriver  *types.ID `json:"from_driver,omitempty"`
	ToDriver    types.ID  `json:"to_driver"`
	ActorUID    string    `json:"actor_uid"`
	CreatedAt   time.Time `json:"created_at"`
}

const actionMovePassenger = "move_passenger"
