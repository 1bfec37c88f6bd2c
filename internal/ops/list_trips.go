package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// GetTripInput contains parameters for the GetTrip operation.
type GetTripInput struct {
	Caller string // required
	ID     string // required
}

// GetTripOutput contains the result of the GetTrip operation.
type GetTripOutput struct {
	Trip stash.Trip `json:"trip"`

	// DayCount is the derived inclusive day span, 0 for drafts.
	DayCount int `json:"day_count"`
}

// GetTrip returns a trip readable by the caller (owner or companion).
func GetTrip(ctx context.Context, database *sql.DB, input GetTripInput) (*GetTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}

	trip, err := requireTripMember(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}
	return &GetTripOutput{Trip: *trip, DayCount: stash.DayCount(trip)}, nil
}

// ListTripsInput contains parameters for the ListTrips operation.
type ListTripsInput struct {
	Caller string // required

	Limit  int
	Offset int
}

// ListTripsOutput contains the result of the ListTrips operation.
type ListTripsOutput struct {
	Trips      []stash.Trip `json:"trips"`
	Pagination Pagination   `json:"pagination"`
}

// ListTrips returns the caller's own trips newest-first.
func ListTrips(ctx context.Context, database *sql.DB, cfg *config.Config, input ListTripsInput) (*ListTripsOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}

	limit, offset := clampPage(input.Limit, input.Offset, cfg.ListMaxLimit)

	trips, err := db.ListTrips(database, input.Caller, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.CountTrips(database, input.Caller)
	if err != nil {
		return nil, err
	}

	return &ListTripsOutput{
		Trips: trips,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(trips) < total,
			Total:   total,
		},
	}, nil
}
