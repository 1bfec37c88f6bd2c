package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// AssignDayInput contains parameters for the AssignDay operation.
type AssignDayInput struct {
	Caller     string // required
	TripID     string // required
	TripItemID string // required

	// DayIndex is the 1-based target day; nil moves the item back to the
	// unassigned bucket.
	DayIndex *int
}

// AssignDayOutput contains the result of the AssignDay operation.
type AssignDayOutput struct {
	TripItem stash.TripItem `json:"trip_item"`
}

// AssignDay moves a trip item between day buckets by rewriting day_index
// in place. The item carries its old sort_order into the new bucket —
// ties are legal and readers break them on id; an explicit Reorder fixes
// the ordering when it matters. Assigning to a day requires the trip to
// be scheduled and the index to fall within the derived day count.
func AssignDay(ctx context.Context, database *sql.DB, input AssignDayInput) (*AssignDayOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" || input.TripItemID == "" {
		return nil, errors.NewInvalidInput("trip_id and trip_item_id are required")
	}

	trip, err := requireTripOwner(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	ti, err := db.GetTripItem(database, input.TripItemID)
	if err != nil {
		return nil, err
	}
	if ti.TripID != input.TripID {
		return nil, errors.NewNotFound("trip item", input.TripItemID)
	}

	if input.DayIndex != nil {
		if trip.Status != stash.StatusScheduled {
			return nil, errors.NewInvalidInput("cannot assign a day on a draft trip")
		}
		days := stash.DayCount(trip)
		if *input.DayIndex < 1 || *input.DayIndex > days {
			return nil, errors.NewInvalidInput("day_index is outside the trip's date range")
		}
	}

	if err := db.UpdateTripItemDay(database, input.TripItemID, input.DayIndex); err != nil {
		return nil, err
	}

	ti.DayIndex = input.DayIndex
	return &AssignDayOutput{TripItem: *ti}, nil
}
