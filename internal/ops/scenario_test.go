package ops

import (
	"context"
	"testing"

	"github.com/avelinek/tripstash/internal/stash"
)

// Walks a whole planning session: collect items, draft a trip, schedule
// it, place items on days, then hand out a dates-level share link.
func TestPlanningSession(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "ana", "ana@example.com")
	ctx := context.Background()

	ramen, err := SaveItem(ctx, database, stubFetcher{p: previewFor("Ichiran Ramen")}, nopSink, SaveItemInput{
		Caller:    "ana",
		Kind:      stash.SourceURL,
		SourceURL: strPtr("https://tabelog.example.com/ichiran"),
		Category:  stash.CategoryRestaurant,
		City:      strPtr("Tokyo"),
	})
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
	fushimi, err := SaveItem(ctx, database, emptyFetcher{}, nopSink, SaveItemInput{
		Caller:   "ana",
		Kind:     stash.SourceManual,
		Title:    "Fushimi Inari at dawn",
		Category: stash.CategoryActivity,
		City:     strPtr("Kyoto"),
	})
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}

	trip, err := CreateTrip(ctx, database, nopSink, CreateTripInput{Caller: "ana", Title: "Japan 2026"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if trip.Trip.Status != stash.StatusDraft {
		t.Fatalf("Status = %q, want draft before dates exist", trip.Trip.Status)
	}

	a := attach(t, database, "ana", trip.Trip.ID, ramen.Item.ID)
	b := attach(t, database, "ana", trip.Trip.ID, fushimi.Item.ID)
	if a.SortOrder != 0 || b.SortOrder != 1 {
		t.Errorf("sort orders = %d, %d, want append order 0, 1", a.SortOrder, b.SortOrder)
	}

	sched, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller: "ana", ID: trip.Trip.ID, StartDate: "2026-04-01", EndDate: "2026-04-03",
	})
	if err != nil {
		t.Fatalf("ScheduleTrip failed: %v", err)
	}
	if sched.DayCount != 3 {
		t.Fatalf("DayCount = %d, want 3", sched.DayCount)
	}

	if _, err := AssignDay(ctx, database, AssignDayInput{
		Caller: "ana", TripID: trip.Trip.ID, TripItemID: b.ID, DayIndex: intPtr(2),
	}); err != nil {
		t.Fatalf("AssignDay failed: %v", err)
	}

	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "ana", TripID: trip.Trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(view.Unassigned) != 1 || view.Unassigned[0].Item.Title != "Ichiran Ramen" {
		t.Errorf("Unassigned = %+v", view.Unassigned)
	}
	if len(view.Days) != 1 || view.Days[0].Date != "2026-04-02" {
		t.Errorf("Days = %+v", view.Days)
	}

	link, err := GenerateLink(ctx, database, testConfig(), nopSink, GenerateLinkInput{
		Caller: "ana", TripID: trip.Trip.ID, Tier: stash.TierCityDates,
	})
	if err != nil {
		t.Fatalf("GenerateLink failed: %v", err)
	}

	shared, err := Resolve(ctx, database, nopSink, ResolveInput{Token: link.Token})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if shared.Title != "Japan 2026" {
		t.Errorf("Title = %q", shared.Title)
	}
	if shared.StartDate == nil || *shared.StartDate != "2026-04-01" {
		t.Errorf("StartDate = %v", shared.StartDate)
	}
	if len(shared.Cities) != 2 {
		t.Errorf("Cities = %v", shared.Cities)
	}
	if shared.Days != nil {
		t.Error("city_dates share leaked item placements")
	}
}
