package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// ScheduleTripInput contains parameters for the ScheduleTrip operation.
type ScheduleTripInput struct {
	Caller string // required
	ID     string // required

	StartDate string // required, YYYY-MM-DD
	EndDate   string // required, YYYY-MM-DD, must not precede StartDate
}

// ScheduleTripOutput contains the result of the ScheduleTrip operation.
type ScheduleTripOutput struct {
	Trip     stash.Trip `json:"trip"`
	DayCount int        `json:"day_count"`
}

// ScheduleTrip moves a trip to scheduled by supplying both dates. This is
// a pure metadata change: no trip_items rows are modified, so day indices
// assigned under an earlier schedule survive — including indices beyond
// the new day count when rescheduling to a shorter range. Those stay put
// until the owner reassigns them (decision recorded in DESIGN.md).
// Re-scheduling an already scheduled trip just replaces the range.
func ScheduleTrip(ctx context.Context, database *sql.DB, sink analytics.Sink, input ScheduleTripInput) (*ScheduleTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}
	if input.StartDate == "" || input.EndDate == "" {
		return nil, errors.NewInvalidInput("start_date and end_date are required")
	}

	r, err := stash.NewDateRange(input.StartDate, input.EndDate)
	if err != nil {
		if stash.IsInvalidRange(err) {
			return nil, errors.NewInvalidDateRange(input.StartDate, input.EndDate)
		}
		return nil, errors.NewInvalidInput("dates must be YYYY-MM-DD")
	}

	trip, err := requireTripOwner(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}

	trip.Status = stash.StatusScheduled
	trip.StartDate = &input.StartDate
	trip.EndDate = &input.EndDate

	if err := db.UpdateTrip(database, trip); err != nil {
		return nil, err
	}

	sink.Record(analytics.EventTripScheduled, input.Caller, map[string]any{
		"days": r.Days(),
	})

	return &ScheduleTripOutput{Trip: *trip, DayCount: r.Days()}, nil
}

// UnscheduleTripInput contains parameters for the UnscheduleTrip operation.
type UnscheduleTripInput struct {
	Caller string // required
	ID     string // required
}

// UnscheduleTripOutput contains the result of the UnscheduleTrip operation.
type UnscheduleTripOutput struct {
	Trip stash.Trip `json:"trip"`
}

// UnscheduleTrip moves a trip back to draft by clearing both dates.
// Day indices on trip_items are deliberately NOT cleared: a later
// re-schedule with a compatible range resurrects the old placements.
// Read paths treat only day_index = null as unassigned, so items with a
// stale index sit in their numbered bucket until reassigned. Idempotent
// on an already-draft trip.
func UnscheduleTrip(ctx context.Context, database *sql.DB, input UnscheduleTripInput) (*UnscheduleTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}

	trip, err := requireTripOwner(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}

	if trip.Status == stash.StatusDraft {
		return &UnscheduleTripOutput{Trip: *trip}, nil
	}

	trip.Status = stash.StatusDraft
	trip.StartDate = nil
	trip.EndDate = nil

	if err := db.UpdateTrip(database, trip); err != nil {
		return nil, err
	}

	return &UnscheduleTripOutput{Trip: *trip}, nil
}
