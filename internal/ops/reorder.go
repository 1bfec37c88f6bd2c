package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
)

// ReorderInput contains parameters for the Reorder operation.
type ReorderInput struct {
	Caller string // required
	TripID string // required

	// DayIndex names the bucket being reordered; nil is the unassigned
	// bucket.
	DayIndex *int

	// OrderedIDs is the complete desired ordering of the bucket's trip
	// item ids. Position in this list becomes sort_order (0-based).
	OrderedIDs []string
}

// ReorderOutput contains the result of the Reorder operation.
type ReorderOutput struct {
	Reordered int `json:"reordered"`
}

// Reorder rewrites sort_order across one (trip, day) bucket in a single
// transaction. All-or-nothing: any failure rolls back every row, and the
// caller re-reads current state instead of assuming partial effect. The
// given ids must be exactly the bucket's current membership.
func Reorder(ctx context.Context, database *sql.DB, input ReorderInput) (*ReorderOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}

	if _, err := requireTripOwner(database, input.TripID, input.Caller); err != nil {
		return nil, err
	}

	// Validate the batch against the bucket before writing anything:
	// every id must belong to this (trip, day) bucket, no id may repeat,
	// and no bucket member may be missing.
	all, err := db.ListTripItems(database, input.TripID)
	if err != nil {
		return nil, err
	}
	bucket := map[string]bool{}
	for _, ti := range all {
		if sameBucket(ti.DayIndex, input.DayIndex) {
			bucket[ti.ID] = true
		}
	}
	if len(input.OrderedIDs) != len(bucket) {
		return nil, errors.NewInvalidInput("ordered_ids must cover the whole bucket")
	}
	seen := map[string]bool{}
	for _, id := range input.OrderedIDs {
		if seen[id] {
			return nil, errors.NewInvalidInput("ordered_ids contains a duplicate: " + id)
		}
		seen[id] = true
		if !bucket[id] {
			return nil, errors.NewInvalidInput("trip item is not in this bucket: " + id)
		}
	}

	if len(input.OrderedIDs) == 0 {
		return &ReorderOutput{Reordered: 0}, nil
	}

	if err := db.ReorderTripItems(database, input.TripID, input.OrderedIDs); err != nil {
		return nil, err
	}
	return &ReorderOutput{Reordered: len(input.OrderedIDs)}, nil
}

func sameBucket(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
