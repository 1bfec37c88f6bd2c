package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// UpdateTripInput contains parameters for the UpdateTrip operation.
// Nil fields are left unchanged. Date changes go through ScheduleTrip /
// UnscheduleTrip, not here, so the status machine stays in one place.
type UpdateTripInput struct {
	Caller string // required
	ID     string // required

	Title      *string
	CoverImage *string
}

// UpdateTripOutput contains the result of the UpdateTrip operation.
type UpdateTripOutput struct {
	Trip stash.Trip `json:"trip"`
}

// UpdateTrip applies partial metadata updates to a trip. Owner only:
// companions get Forbidden, strangers NotFound.
func UpdateTrip(ctx context.Context, database *sql.DB, input UpdateTripInput) (*UpdateTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}
	if input.Title == nil && input.CoverImage == nil {
		return nil, errors.NewInvalidInput("at least one field must be provided")
	}

	trip, err := requireTripOwner(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidInput("title must not be empty")
		}
		trip.Title = title
	}
	if input.CoverImage != nil {
		if *input.CoverImage == "" {
			trip.CoverImage = nil
		} else {
			trip.CoverImage = input.CoverImage
		}
	}

	if err := db.UpdateTrip(database, trip); err != nil {
		return nil, err
	}

	return &UpdateTripOutput{Trip: *trip}, nil
}

// DeleteTripInput contains parameters for the DeleteTrip operation.
type DeleteTripInput struct {
	Caller string // required
	ID     string // required
}

// DeleteTripOutput contains the result of the DeleteTrip operation.
type DeleteTripOutput struct {
	ID string `json:"id"`
}

// DeleteTrip removes a trip. Its trip_items, companions and pending
// invites go with it via the storage-layer cascade; the underlying saved
// items are untouched.
func DeleteTrip(ctx context.Context, database *sql.DB, input DeleteTripInput) (*DeleteTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}

	if _, err := requireTripOwner(database, input.ID, input.Caller); err != nil {
		return nil, err
	}

	if err := db.DeleteTrip(database, input.ID); err != nil {
		return nil, err
	}
	return &DeleteTripOutput{ID: input.ID}, nil
}
