// README: Resolved locations and lookup snapshots for auditing.
package location

import (
	"errors"
	"time"

	"carpool/internal/types"
)

var ErrNotResolvable = errors.New("address could not be resolved")

// Resolved is a geocoded address.
type Resolved struct {
	Coordinate       types.Point `json:"coordinate"`
	FormattedAddress string      `json:"formatted_address"`
}

// Snapshot is one audit row per provider lookup (cache hits are not
// snapshotted).
type Snapshot struct {
	ID         int64
	Address    string
	Coordinate types.Point
	RecordedAt time.Time
}
