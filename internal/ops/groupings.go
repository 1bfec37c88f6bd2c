package ops

import (
	"context"
	"database/sql"
	"sort"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// TripEntry is one item placed on a trip, as grouping views expose it.
type TripEntry struct {
	TripItem stash.TripItem  `json:"trip_item"`
	Item     stash.SavedItem `json:"item"`
}

// DayGroup is one day bucket of a trip.
type DayGroup struct {
	// Day is the 1-based day index; 0 marks the unassigned bucket.
	Day int `json:"day"`

	// Date is the calendar date of this day, empty for the unassigned
	// bucket or when the trip is a draft.
	Date string `json:"date,omitempty"`

	Entries []TripEntry `json:"entries"`
}

// GroupByDayInput contains parameters for the GroupByDay operation.
type GroupByDayInput struct {
	Caller string // required
	TripID string // required
}

// GroupByDayOutput contains the result of the GroupByDay operation.
type GroupByDayOutput struct {
	Trip stash.Trip `json:"trip"`

	// DayCount is the trip's derived day span, 0 for drafts.
	DayCount int `json:"day_count"`

	// Unassigned holds entries with no day, ordered by sort_order.
	Unassigned []TripEntry `json:"unassigned"`

	// Days holds the populated day buckets in ascending day order.
	// Stale indices beyond DayCount appear here as-is; the UI decides
	// how to surface them.
	Days []DayGroup `json:"days"`
}

// GroupByDay is a pure projection of current trip state: entries grouped
// into the unassigned bucket and ascending day buckets, each sorted by
// sort_order with id as the stable tie-break. Safe to recompute on every
// read; no side effects.
func GroupByDay(ctx context.Context, database *sql.DB, input GroupByDayInput) (*GroupByDayOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}

	trip, err := requireTripMember(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	entries, err := db.ListTripEntries(database, input.TripID)
	if err != nil {
		return nil, err
	}

	out := &GroupByDayOutput{
		Trip:       *trip,
		DayCount:   stash.DayCount(trip),
		Unassigned: []TripEntry{},
		Days:       []DayGroup{},
	}

	byDay := map[int][]TripEntry{}
	for _, e := range entries {
		entry := TripEntry{TripItem: e.TripItem, Item: e.Item}
		if e.TripItem.DayIndex == nil {
			out.Unassigned = append(out.Unassigned, entry)
			continue
		}
		byDay[*e.TripItem.DayIndex] = append(byDay[*e.TripItem.DayIndex], entry)
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	var r *stash.DateRange
	if trip.StartDate != nil && trip.EndDate != nil {
		r, _ = stash.NewDateRange(*trip.StartDate, *trip.EndDate)
	}
	for _, d := range days {
		g := DayGroup{Day: d, Entries: byDay[d]}
		if r != nil && d <= out.DayCount {
			g.Date = r.DateOfDay(d).Format(stash.DateLayout)
		}
		out.Days = append(out.Days, g)
	}

	return out, nil
}

// CategoryGroup is one category bucket of a trip.
type CategoryGroup struct {
	Category stash.Category `json:"category"`
	Entries  []TripEntry    `json:"entries"`
}

// GroupByCategoryInput contains parameters for the GroupByCategory operation.
type GroupByCategoryInput struct {
	Caller string // required
	TripID string // required
}

// GroupByCategoryOutput contains the result of the GroupByCategory operation.
type GroupByCategoryOutput struct {
	Trip stash.Trip `json:"trip"`

	// Groups is the fixed five-bucket partition in canonical category
	// order; empty buckets are present with zero entries.
	Groups []CategoryGroup `json:"groups"`
}

// GroupByCategory partitions a trip's entries into the five canonical
// category buckets, members in item creation order (id order as the
// stable proxy). Pure projection, recomputed on every read.
func GroupByCategory(ctx context.Context, database *sql.DB, input GroupByCategoryInput) (*GroupByCategoryOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}

	trip, err := requireTripMember(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	entries, err := db.ListTripEntries(database, input.TripID)
	if err != nil {
		return nil, err
	}

	byCategory := map[stash.Category][]TripEntry{}
	for _, e := range entries {
		cat := e.Item.Category
		if !stash.ValidCategory(cat) {
			cat = stash.CategoryGeneral
		}
		byCategory[cat] = append(byCategory[cat], TripEntry{TripItem: e.TripItem, Item: e.Item})
	}

	out := &GroupByCategoryOutput{Trip: *trip}
	for _, cat := range stash.Categories {
		group := CategoryGroup{Category: cat, Entries: byCategory[cat]}
		if group.Entries == nil {
			group.Entries = []TripEntry{}
		}
		sort.Slice(group.Entries, func(i, j int) bool {
			a, b := group.Entries[i].Item, group.Entries[j].Item
			if a.CreatedAt != b.CreatedAt {
				return a.CreatedAt < b.CreatedAt
			}
			return a.ID < b.ID
		})
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}
