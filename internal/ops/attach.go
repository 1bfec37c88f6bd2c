package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// AttachItemInput contains parameters for the AttachItem operation.
type AttachItemInput struct {
	Caller string // required
	TripID string // required
	ItemID string // required; must be owned by the caller
}

// AttachItemOutput contains the result of the AttachItem operation.
type AttachItemOutput struct {
	TripItem stash.TripItem `json:"trip_item"`

	// AlreadyAttached reports that the (trip, item) pair existed before
	// this call. Reported as a status, not an error: the end state the
	// caller wanted holds either way.
	AlreadyAttached bool `json:"already_attached"`
}

// AttachItem places an item on a trip. New attachments land in the
// unassigned bucket at max sort_order + 1 (0 for an empty bucket).
// Attaching an already attached item is a no-op reporting AlreadyAttached.
func AttachItem(ctx context.Context, database *sql.DB, input AttachItemInput) (*AttachItemOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" || input.ItemID == "" {
		return nil, errors.NewInvalidInput("trip_id and item_id are required")
	}

	if _, err := requireTripOwner(database, input.TripID, input.Caller); err != nil {
		return nil, err
	}
	if _, err := db.GetItemOwned(database, input.ItemID, input.Caller); err != nil {
		return nil, err
	}

	existing, err := db.FindTripItem(database, input.TripID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &AttachItemOutput{TripItem: *existing, AlreadyAttached: true}, nil
	}

	sortOrder, err := db.NextUnassignedSortOrder(database, input.TripID)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	ti := stash.TripItem{
		ID:        id,
		TripID:    input.TripID,
		ItemID:    input.ItemID,
		DayIndex:  nil,
		SortOrder: sortOrder,
		CreatedAt: time.Now().Unix(),
	}

	err = db.InsertTripItem(database, &ti)
	if err == db.ErrUniqueConstraint {
		// Lost a race with a concurrent attach of the same pair; the
		// pair exists, which is what the caller asked for.
		existing, ferr := db.FindTripItem(database, input.TripID, input.ItemID)
		if ferr != nil {
			return nil, ferr
		}
		if existing != nil {
			return &AttachItemOutput{TripItem: *existing, AlreadyAttached: true}, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return &AttachItemOutput{TripItem: ti, AlreadyAttached: false}, nil
}

// DetachItemInput contains parameters for the DetachItem operation.
type DetachItemInput struct {
	Caller     string // required
	TripID     string // required
	TripItemID string // required
}

// DetachItemOutput contains the result of the DetachItem operation.
type DetachItemOutput struct {
	ID string `json:"id"`
}

// DetachItem deletes the join row only — the underlying saved item is
// never touched. Idempotent: the postcondition is "this trip item no
// longer exists", which deletion always achieves.
func DetachItem(ctx context.Context, database *sql.DB, input DetachItemInput) (*DetachItemOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" || input.TripItemID == "" {
		return nil, errors.NewInvalidInput("trip_id and trip_item_id are required")
	}

	if _, err := requireTripOwner(database, input.TripID, input.Caller); err != nil {
		return nil, err
	}

	ti, err := db.GetTripItem(database, input.TripItemID)
	if errors.Is(err, errors.ErrNotFound) {
		return &DetachItemOutput{ID: input.TripItemID}, nil
	}
	if err != nil {
		return nil, err
	}
	if ti.TripID != input.TripID {
		// A join row on some other trip is invisible to this caller.
		return nil, errors.NewNotFound("trip item", input.TripItemID)
	}

	if err := db.DeleteTripItem(database, input.TripItemID); err != nil {
		return nil, err
	}
	return &DetachItemOutput{ID: input.TripItemID}, nil
}
