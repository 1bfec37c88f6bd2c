package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// AdoptTripInput contains parameters for the AdoptTrip operation.
type AdoptTripInput struct {
	Caller string // required: the adopting user
	Token  string // required: the share token being adopted
}

// AdoptTripOutput contains the result of the AdoptTrip operation.
type AdoptTripOutput struct {
	Trip stash.Trip `json:"trip"`

	// CopiedItems is how many saved items were deep-copied into the
	// adopter's library.
	CopiedItems int `json:"copied_items"`
}

// AdoptTrip forks a shared trip into the caller's own library: a new trip
// with forked_from_trip_id pointing at the source, plus deep copies of
// every item visible under the share's tier, with relative day_index and
// sort_order preserved under a fresh identifier space. The source trip
// and its items are never mutated. Below the full tier no items are
// visible, so adoption yields the trip shell only (title, and dates from
// city_dates up).
func AdoptTrip(ctx context.Context, database *sql.DB, sink analytics.Sink, input AdoptTripInput) (*AdoptTripOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.Token == "" {
		return nil, errors.NewInvalidInput("token is required")
	}

	source, err := db.GetTripByToken(database, input.Token)
	if err != nil {
		return nil, err
	}
	if source.SharePrivacy == nil {
		return nil, errors.NewNotFound("share", input.Token)
	}
	tier := *source.SharePrivacy

	now := time.Now().Unix()
	tripID, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	trip := stash.Trip{
		ID:               tripID,
		OwnerID:          input.Caller,
		Title:            source.Title,
		Status:           stash.StatusDraft,
		ForkedFromTripID: &source.ID,
		CreatedAt:        now,
	}
	if tier != stash.TierCityOnly && source.Scheduled() {
		trip.Status = stash.StatusScheduled
		trip.StartDate = source.StartDate
		trip.EndDate = source.EndDate
	}

	var (
		items     []stash.SavedItem
		tripItems []stash.TripItem
	)
	if tier == stash.TierFull {
		entries, err := db.ListTripEntries(database, source.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			itemID, err := generateULID()
			if err != nil {
				return nil, errors.NewInternal(err)
			}
			copied := e.Item
			copied.ID = itemID
			copied.OwnerID = input.Caller
			copied.Archived = false
			copied.CreatedAt = now
			items = append(items, copied)

			tiID, err := generateULID()
			if err != nil {
				return nil, errors.NewInternal(err)
			}
			tripItems = append(tripItems, stash.TripItem{
				ID:        tiID,
				TripID:    tripID,
				ItemID:    itemID,
				DayIndex:  e.TripItem.DayIndex,
				SortOrder: e.TripItem.SortOrder,
				CreatedAt: now,
			})
		}
	}

	if err := db.InsertAdoption(database, &trip, items, tripItems); err != nil {
		return nil, err
	}

	sink.Record(analytics.EventTripAdopted, input.Caller, map[string]any{
		"tier":  string(tier),
		"items": len(items),
	})

	return &AdoptTripOutput{Trip: trip, CopiedItems: len(items)}, nil
}
