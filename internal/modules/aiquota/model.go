// README: Monthly AI-announcement quota per organizer.
package aiquota

import "errors"

// ErrQuotaExhausted is returned when an organizer has no announcement
// credits remaining for the current month.
var ErrQuotaExhausted = errors.New("announcement quota exhausted")

// DefaultCredits is the number of AI announcements granted per month.
const DefaultCredits = 50
