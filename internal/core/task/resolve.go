package task

import (
	"errors"
	"fmt"
	"time"
	// Named task timezones must resolve without a system zoneinfo database.
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
)

var (
	// ErrMalformedDate is returned when a 10-character due date is not a valid calendar date.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedDateTime is returned when a due date-time cannot be parsed.
	ErrMalformedDateTime = errors.New("malformed date-time")
)

// dateLen is the length of a plain calendar date (2006-01-02). The remote API
// uses it to tell all-day deadlines from timed ones.
const dateLen = 10

const (
	dateLayout     = "2006-01-02"
	floatingLayout = "2006-01-02T15:04:05"
)

// Classification is the resolved shape of a task's due info. The set of
// implementations is closed: NoDate, Date, and DateTime.
type Classification interface {
	classification()
}

// NoDate means the task carries no due info.
type NoDate struct{}

// Date is an all-day deadline. Day is midnight in the resolved location.
type Date struct {
	Day       time.Time
	Recurring bool
}

// DateTime is a timed deadline attached to the resolved location.
type DateTime struct {
	At        time.Time
	Recurring bool
}

func (NoDate) classification()   {}
func (Date) classification()     {}
func (DateTime) classification() {}

// ParseError describes a due string that could not be resolved. It matches
// its Kind with errors.Is.
type ParseError struct {
	Kind  error
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Resolve classifies due against defaultLoc. The location used is the due
// info's own timezone, else defaultLoc, else UTC.
func Resolve(due *DueInfo, defaultLoc *time.Location) (Classification, error) {
	if due == nil {
		return NoDate{}, nil
	}

	loc := location(due, defaultLoc)

	if len(due.Date) == dateLen {
		day, err := time.ParseInLocation(dateLayout, due.Date, loc)
		if err != nil {
			return nil, &ParseError{Kind: ErrMalformedDate, Value: due.Date, Err: err}
		}
		return Date{Day: day, Recurring: due.IsRecurring}, nil
	}

	at, err := parseDateTime(due.Date, loc)
	if err != nil {
		return nil, &ParseError{Kind: ErrMalformedDateTime, Value: due.Date, Err: err}
	}
	return DateTime{At: at, Recurring: due.IsRecurring}, nil
}

// parseDateTime accepts RFC 3339 strings, which are converted into loc, and
// floating strings without an offset, which are read as wall time in loc.
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, s); err == nil {
		return at.In(loc), nil
	}

	wall, err := time.Parse(floatingLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return inLocation(wall, loc), nil
}

// inLocation returns the instant whose wall clock in loc matches wall, read
// as a UTC time. A wall time repeated by a DST fall-back resolves to its first
// occurrence. A wall time skipped by a spring-forward gap is moved forward by
// the length of the gap, so 02:30 becomes 03:30 when 02:00 jumps to 03:00.
func inLocation(wall time.Time, loc *time.Location) time.Time {
	_, before := wall.Add(-24 * time.Hour).In(loc).Zone()
	_, after := wall.Add(24 * time.Hour).In(loc).Zone()

	first := wall.Add(-time.Duration(before) * time.Second).In(loc)
	second := wall.Add(-time.Duration(after) * time.Second).In(loc)

	switch {
	case sameWall(first, wall) && sameWall(second, wall):
		if second.Before(first) {
			return second
		}
		return first
	case sameWall(second, wall):
		return second
	default:
		return first
	}
}

func sameWall(at, wall time.Time) bool {
	y, m, d := at.Date()
	wy, wm, wd := wall.Date()
	return y == wy && m == wm && d == wd &&
		at.Hour() == wall.Hour() && at.Minute() == wall.Minute() &&
		at.Second() == wall.Second() && at.Nanosecond() == wall.Nanosecond()
}

func location(due *DueInfo, defaultLoc *time.Location) *time.Location {
	if due.Timezone != nil && *due.Timezone != "" {
		loc, err := time.LoadLocation(*due.Timezone)
		if err == nil {
			return loc
		}
		log.Debug().Err(err).Str("timezone", *due.Timezone).Msg("unknown task timezone, using default")
	}
	if defaultLoc != nil {
		return defaultLoc
	}
	return time.UTC
}

// startOfDay returns midnight of t's calendar date in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// today returns midnight of now's calendar date as seen from loc.
func today(now time.Time, loc *time.Location) time.Time {
	return startOfDay(now.In(loc))
}
