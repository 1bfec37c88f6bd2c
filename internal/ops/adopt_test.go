package ops

import (
	"context"
	"testing"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

func TestAdoptTrip_FullTierDeepCopies(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	seedUser(t, database, "u2", "u2@example.com")
	ctx := context.Background()

	sourceID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", sourceID, stash.TierFull)

	out, err := AdoptTrip(ctx, database, nopSink, AdoptTripInput{Caller: "u2", Token: link.Token})
	if err != nil {
		t.Fatalf("AdoptTrip failed: %v", err)
	}
	if out.Trip.OwnerID != "u2" {
		t.Errorf("OwnerID = %q, want the adopter", out.Trip.OwnerID)
	}
	if out.Trip.ID == sourceID {
		t.Error("adoption reused the source trip id")
	}
	if out.Trip.ForkedFromTripID == nil || *out.Trip.ForkedFromTripID != sourceID {
		t.Errorf("ForkedFromTripID = %v, want the source id", out.Trip.ForkedFromTripID)
	}
	if out.Trip.Status != stash.StatusScheduled || out.Trip.StartDate == nil || *out.Trip.StartDate != "2026-04-01" {
		t.Errorf("adopted trip = %+v, want the source schedule carried over", out.Trip)
	}
	if out.CopiedItems != 2 {
		t.Errorf("CopiedItems = %d, want 2", out.CopiedItems)
	}

	// The copies land in the adopter's own library with placements intact.
	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u2", TripID: out.Trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(view.Unassigned) != 1 || view.Unassigned[0].Item.Title != "Ramen bar" {
		t.Errorf("Unassigned = %+v", view.Unassigned)
	}
	if len(view.Days) != 1 || view.Days[0].Day != 2 {
		t.Fatalf("Days = %+v, want the day-2 placement preserved", view.Days)
	}
	if view.Days[0].Entries[0].Item.OwnerID != "u2" {
		t.Error("copied item still belongs to the source owner")
	}

	items, err := ListItems(ctx, database, testConfig(), ListItemsInput{Caller: "u2"})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items.Items) != 2 {
		t.Errorf("adopter library has %d items, want 2 copies", len(items.Items))
	}
}

func TestAdoptTrip_SourceUntouched(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	seedUser(t, database, "u2", "u2@example.com")
	ctx := context.Background()

	sourceID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", sourceID, stash.TierFull)

	before, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: sourceID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}

	if _, err := AdoptTrip(ctx, database, nopSink, AdoptTripInput{Caller: "u2", Token: link.Token}); err != nil {
		t.Fatalf("AdoptTrip failed: %v", err)
	}

	after, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: sourceID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(after.Unassigned) != len(before.Unassigned) || len(after.Days) != len(before.Days) {
		t.Error("adoption mutated the source trip's placements")
	}
	for i := range before.Unassigned {
		if after.Unassigned[i].TripItem.ID != before.Unassigned[i].TripItem.ID {
			t.Error("source trip rows changed identity")
		}
	}

	items, err := ListItems(ctx, database, testConfig(), ListItemsInput{Caller: "u1"})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items.Items) != 2 {
		t.Errorf("source library has %d items after adoption, want 2", len(items.Items))
	}
}

func TestAdoptTrip_CityOnlyYieldsShell(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	seedUser(t, database, "u2", "u2@example.com")
	ctx := context.Background()

	sourceID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", sourceID, stash.TierCityOnly)

	out, err := AdoptTrip(ctx, database, nopSink, AdoptTripInput{Caller: "u2", Token: link.Token})
	if err != nil {
		t.Fatalf("AdoptTrip failed: %v", err)
	}
	if out.CopiedItems != 0 {
		t.Errorf("CopiedItems = %d, want 0 below full tier", out.CopiedItems)
	}
	if out.Trip.Status != stash.StatusDraft || out.Trip.StartDate != nil {
		t.Errorf("city_only adoption carried dates: %+v", out.Trip)
	}

	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u2", TripID: out.Trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(view.Unassigned) != 0 || len(view.Days) != 0 {
		t.Error("city_only adoption copied items")
	}
}

func TestAdoptTrip_CityDatesCarriesScheduleOnly(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	seedUser(t, database, "u2", "u2@example.com")

	sourceID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", sourceID, stash.TierCityDates)

	out, err := AdoptTrip(context.Background(), database, nopSink, AdoptTripInput{Caller: "u2", Token: link.Token})
	if err != nil {
		t.Fatalf("AdoptTrip failed: %v", err)
	}
	if out.Trip.Status != stash.StatusScheduled || out.Trip.EndDate == nil || *out.Trip.EndDate != "2026-04-03" {
		t.Errorf("city_dates adoption = %+v, want schedule without items", out.Trip)
	}
	if out.CopiedItems != 0 {
		t.Errorf("CopiedItems = %d, want 0", out.CopiedItems)
	}
}

func TestAdoptTrip_UnknownToken(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u2", "u2@example.com")

	_, err := AdoptTrip(context.Background(), database, nopSink, AdoptTripInput{Caller: "u2", Token: "bogus"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
