package ops

import (
	"context"
	"testing"

	"github.com/avelinek/tripstash/internal/stash"
)

func TestGroupByDay_BucketsAndDates(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := scheduledTrip(t, database, "u1", "2026-04-01", "2026-04-03")

	loose := saveManualItem(t, database, "u1", "Loose")
	attach(t, database, "u1", trip.ID, loose.ID)

	for day, title := range map[int]string{3: "Late", 1: "Early"} {
		item := saveManualItem(t, database, "u1", title)
		ti := attach(t, database, "u1", trip.ID, item.ID)
		if _, err := AssignDay(ctx, database, AssignDayInput{
			Caller: "u1", TripID: trip.ID, TripItemID: ti.ID, DayIndex: intPtr(day),
		}); err != nil {
			t.Fatalf("AssignDay failed: %v", err)
		}
	}

	out, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if out.DayCount != 3 {
		t.Errorf("DayCount = %d, want 3", out.DayCount)
	}
	if len(out.Unassigned) != 1 || out.Unassigned[0].Item.Title != "Loose" {
		t.Errorf("Unassigned = %+v, want the loose item", out.Unassigned)
	}
	if len(out.Days) != 2 {
		t.Fatalf("Days = %d buckets, want 2 (empty day 2 omitted)", len(out.Days))
	}
	if out.Days[0].Day != 1 || out.Days[1].Day != 3 {
		t.Errorf("day order = %d, %d, want ascending 1, 3", out.Days[0].Day, out.Days[1].Day)
	}
	if out.Days[0].Date != "2026-04-01" || out.Days[1].Date != "2026-04-03" {
		t.Errorf("dates = %q, %q", out.Days[0].Date, out.Days[1].Date)
	}
}

func TestGroupByCategory_CanonicalBuckets(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "u1", "Trip")

	save := func(title string, cat stash.Category) {
		out, err := SaveItem(ctx, database, emptyFetcher{}, nopSink, SaveItemInput{
			Caller: "u1", Kind: stash.SourceManual, Title: title, Category: cat,
		})
		if err != nil {
			t.Fatalf("SaveItem failed: %v", err)
		}
		attach(t, database, "u1", trip.ID, out.Item.ID)
	}
	save("Izakaya", stash.CategoryRestaurant)
	save("Onsen", stash.CategoryActivity)
	save("Sushi bar", stash.CategoryRestaurant)

	out, err := GroupByCategory(ctx, database, GroupByCategoryInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByCategory failed: %v", err)
	}

	if len(out.Groups) != len(stash.Categories) {
		t.Fatalf("Groups = %d, want the fixed %d buckets", len(out.Groups), len(stash.Categories))
	}
	for i, g := range out.Groups {
		if g.Category != stash.Categories[i] {
			t.Errorf("bucket %d = %q, want canonical order", i, g.Category)
		}
		if g.Entries == nil {
			t.Errorf("bucket %q entries is nil, want empty slice", g.Category)
		}
	}

	restaurants := out.Groups[0]
	if restaurants.Category != stash.CategoryRestaurant || len(restaurants.Entries) != 2 {
		t.Fatalf("restaurant bucket = %+v", restaurants)
	}
	if restaurants.Entries[0].Item.Title != "Izakaya" {
		t.Errorf("restaurant order = %q first, want creation order", restaurants.Entries[0].Item.Title)
	}
}
