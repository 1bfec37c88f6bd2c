package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

func threeUnassigned(t *testing.T, database *sql.DB, owner string) (stash.Trip, []stash.TripItem) {
	t.Helper()
	trip := createDraftTrip(t, database, owner, "Trip")
	var tis []stash.TripItem
	for _, title := range []string{"A", "B", "C"} {
		item := saveManualItem(t, database, owner, title)
		tis = append(tis, attach(t, database, owner, trip.ID, item.ID))
	}
	return trip, tis
}

func TestReorder_RewritesBucket(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip, tis := threeUnassigned(t, database, "u1")
	out, err := Reorder(ctx, database, ReorderInput{
		Caller:     "u1",
		TripID:     trip.ID,
		DayIndex:   nil,
		OrderedIDs: []string{tis[2].ID, tis[0].ID, tis[1].ID},
	})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if out.Reordered != 3 {
		t.Errorf("Reordered = %d, want 3", out.Reordered)
	}

	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	got := []string{}
	for _, e := range view.Unassigned {
		got = append(got, e.Item.Title)
	}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i, e := range view.Unassigned {
		if e.TripItem.SortOrder != i {
			t.Errorf("position %d has sort_order %d, want contiguous 0-based", i, e.TripItem.SortOrder)
		}
	}
}

func TestReorder_RejectsBadBatches(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip, tis := threeUnassigned(t, database, "u1")
	otherTrip, otherTis := threeUnassigned(t, database, "u1")
	_ = otherTrip

	cases := []struct {
		name string
		ids  []string
	}{
		{"missing member", []string{tis[0].ID, tis[1].ID}},
		{"duplicate id", []string{tis[0].ID, tis[0].ID, tis[1].ID}},
		{"foreign row", []string{tis[0].ID, tis[1].ID, otherTis[0].ID}},
		{"extra id", []string{tis[0].ID, tis[1].ID, tis[2].ID, otherTis[1].ID}},
	}
	for _, c := range cases {
		_, err := Reorder(ctx, database, ReorderInput{Caller: "u1", TripID: trip.ID, OrderedIDs: c.ids})
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want INVALID_INPUT", c.name, err)
		}
	}

	// Nothing was written by the rejected batches.
	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	for i, e := range view.Unassigned {
		if e.TripItem.ID != tis[i].ID {
			t.Errorf("order changed after rejected reorder")
		}
	}
}

func TestReorder_ScopedToOneDayBucket(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := scheduledTrip(t, database, "u1", "2026-04-01", "2026-04-02")
	var day1 []stash.TripItem
	for _, title := range []string{"D1a", "D1b"} {
		item := saveManualItem(t, database, "u1", title)
		ti := attach(t, database, "u1", trip.ID, item.ID)
		if _, err := AssignDay(ctx, database, AssignDayInput{
			Caller: "u1", TripID: trip.ID, TripItemID: ti.ID, DayIndex: intPtr(1),
		}); err != nil {
			t.Fatalf("AssignDay failed: %v", err)
		}
		day1 = append(day1, ti)
	}
	loose := saveManualItem(t, database, "u1", "Unassigned")
	looseTI := attach(t, database, "u1", trip.ID, loose.ID)

	// Reordering day 1 must not require (or accept) the unassigned row.
	if _, err := Reorder(ctx, database, ReorderInput{
		Caller: "u1", TripID: trip.ID, DayIndex: intPtr(1),
		OrderedIDs: []string{day1[1].ID, day1[0].ID},
	}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	_, err := Reorder(ctx, database, ReorderInput{
		Caller: "u1", TripID: trip.ID, DayIndex: intPtr(1),
		OrderedIDs: []string{day1[0].ID, day1[1].ID, looseTI.ID},
	})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("cross-bucket batch err = %v, want INVALID_INPUT", err)
	}
}

func TestReorder_EmptyBucket(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	trip := createDraftTrip(t, database, "u1", "Empty")
	out, err := Reorder(context.Background(), database, ReorderInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("Reorder on empty bucket failed: %v", err)
	}
	if out.Reordered != 0 {
		t.Errorf("Reordered = %d, want 0", out.Reordered)
	}
}
