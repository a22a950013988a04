package loan

import (
	"errors"
	"time"

	"locallibrary/internal/catalog"
)

var (
	ErrInvalidInput   = errors.New("enter a valid date")
	ErrPastDate       = errors.New("invalid date: renewal in past")
	ErrTooFarInFuture = errors.New("invalid date: renewal more than 4 weeks ahead")
)

const (
	// renewalWindowDays bounds how far ahead a renewal may be set.
	renewalWindowDays = 28
	// proposedRenewalDays is the default renewal offered to the librarian.
	proposedRenewalDays = 21
)

// ValidateRenewalDate checks proposed against the window [today, today+4 weeks]
// and returns it unchanged when it fits. Both ends are inclusive.
func ValidateRenewalDate(proposed, today time.Time) (time.Time, error) {
	day := catalog.DateOf(proposed)
	first := catalog.DateOf(today)
	last := first.AddDate(0, 0, renewalWindowDays)

	if day.Before(first) {
		return time.Time{}, ErrPastDate
	}
	if day.After(last) {
		return time.Time{}, ErrTooFarInFuture
	}
	return proposed, nil
}

// ProposedRenewalDate is the date offered before the librarian types one.
func ProposedRenewalDate(today time.Time) time.Time {
	return catalog.DateOf(today).AddDate(0, 0, proposedRenewalDays)
}

// ParseRenewalDate parses submitted input, reporting ErrInvalidInput for
// anything that is not a calendar date.
func ParseRenewalDate(input string) (time.Time, error) {
	t, err := catalog.ParseDate(input)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t, nil
}

// RenewalState tracks a single renewal attempt.
type RenewalState int

const (
	AwaitingInput RenewalState = iota
	Validating
	Persisted
	RedisplayWithError
)

func (s RenewalState) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Validating:
		return "validating"
	case Persisted:
		return "persisted"
	case RedisplayWithError:
		return "redisplay_with_error"
	default:
		return "unknown"
	}
}

// RenewalForm is what a renewal attempt hands back to the caller: the
// instance, the date shown or stored, and the error to redisplay if any.
type RenewalForm struct {
	Instance    catalog.BookInstance
	Input       string
	RenewalDate time.Time
	State       RenewalState
	Err         error
	RedirectTo  string
}

// ErrorCode names a renewal validation error for clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPastDate):
		return "past_date"
	case errors.Is(err, ErrTooFarInFuture):
		return "too_far_in_future"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	default:
		return ""
	}
}
