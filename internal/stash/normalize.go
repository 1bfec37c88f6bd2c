package stash

import (
	"net/url"
	"strings"
	"time"
)

// DateLayout is the storage format for trip dates.
const DateLayout = "2006-01-02"

// NormalizeEmail canonicalizes an email for comparison and storage:
// trimmed and lowercased. All invite-flow comparisons go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTitle trims a title and substitutes DefaultTitle when blank.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return title
}

// NormalizeCity trims a city name and collapses blank to nil.
func NormalizeCity(city *string) *string {
	if city == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*city)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ValidURL reports whether raw parses as an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateRange is a validated inclusive start/end pair.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses and validates a start/end pair. Start must not be
// after end.
func NewDateRange(start, end string) (*DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if s.After(e) {
		return nil, errInvalidRange
	}
	return &DateRange{Start: s, End: e}, nil
}

// errInvalidRange is a sentinel distinguishing "start after end" from a
// parse failure; ops translate it into the typed error taxonomy.
var errInvalidRange = rangeError{}

type rangeError struct{}

func (rangeError) Error() string { return "start date is after end date" }

// IsInvalidRange reports whether err is the start-after-end sentinel.
func IsInvalidRange(err error) bool {
	_, ok := err.(rangeError)
	return ok
}

// Days returns the inclusive day count of the range. A single-day trip
// (start == end) has one day.
func (r *DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// DateOfDay returns the calendar date of the 1-based day index n,
// i.e. start + (n-1) days. The index is not bounds-checked: stale
// indices beyond the day count survive rescheduling (see DESIGN.md).
func (r *DateRange) DateOfDay(n int) time.Time {
	return r.Start.AddDate(0, 0, n-1)
}

// DayCount derives the day span of a trip, or 0 if it is not scheduled.
func DayCount(t *Trip) int {
	if t.StartDate == nil || t.EndDate == nil {
		return 0
	}
	r, err := NewDateRange(*t.StartDate, *t.EndDate)
	if err != nil {
		return 0
	}
	return r.Days()
}
