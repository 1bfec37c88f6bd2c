package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// CreateTripInput contains parameters for the CreateTrip operation.
type CreateTripInput struct {
	Caller string // required
	Title  string // required

	// StartDate/EndDate: supply both for a scheduled trip, neither for a
	// draft. Supplying exactly one is invalid.
	StartDate *string
	EndDate   *string

	CoverImage *string
}

// CreateTripOutput contains the result of the CreateTrip operation.
type CreateTripOutput struct {
	Trip stash.Trip `json:"trip"`
}

// CreateTrip creates a trip. Status is scheduled if and only if both dates
// are supplied here; this is the only place status is set at creation time.
func CreateTrip(ctx context.Context, database *sql.DB, sink analytics.Sink, input CreateTripInput) (*CreateTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidInput("title is required")
	}
	if (input.StartDate == nil) != (input.EndDate == nil) {
		return nil, errors.NewInvalidInput("start_date and end_date must be supplied together")
	}

	trip := stash.Trip{
		OwnerID:    input.Caller,
		Title:      title,
		Status:     stash.StatusDraft,
		CoverImage: input.CoverImage,
		CreatedAt:  time.Now().Unix(),
	}

	if input.StartDate != nil {
		if _, err := stash.NewDateRange(*input.StartDate, *input.EndDate); err != nil {
			if stash.IsInvalidRange(err) {
				return nil, errors.NewInvalidDateRange(*input.StartDate, *input.EndDate)
			}
			return nil, errors.NewInvalidInput("dates must be YYYY-MM-DD")
		}
		trip.Status = stash.StatusScheduled
		trip.StartDate = input.StartDate
		trip.EndDate = input.EndDate
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	trip.ID = id

	if err := db.InsertTrip(database, &trip); err != nil {
		return nil, err
	}

	sink.Record(analytics.EventTripCreated, input.Caller, map[string]any{
		"status": string(trip.Status),
	})

	return &CreateTripOutput{Trip: trip}, nil
}
