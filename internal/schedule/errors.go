package schedule

import (
	"errors"
	"fmt"
)

// ErrMalformedTimestamp reports an engagement event whose created_at value
// cannot be parsed. It is fatal to the whole normalization call for that
// account; callers must supply well-formed data.
var ErrMalformedTimestamp = errors.New("malformed event timestamp")

// ErrInvalidAccountID reports an account identifier that is neither a
// numeric id nor a numeric id with the "-tw" suffix.
var ErrInvalidAccountID = errors.New("invalid account id")

// WriteScheduleFailedError is returned when the schedule was computed
// successfully but the save-schedule API returned a non-success response.
// It carries the upstream status and the computed schedule so the caller can
// inspect or re-queue without losing the result. The publisher performs
// exactly one attempt; retrying is the caller's responsibility.
type WriteScheduleFailedError struct {
	StatusCode int    // upstream HTTP status; 0 when the request never completed
	Reason     string // upstream status line or transport error
	Schedule   CompleteSchedule
}

func (e *WriteScheduleFailedError) Error() string {
	return fmt.Sprintf("error writing computed schedule: save-schedule API request failed with code %d, reason: %s",
		e.StatusCode, e.Reason)
}
