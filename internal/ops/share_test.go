package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

func shareTrip(t *testing.T, database *sql.DB, owner, tripID string, tier stash.PrivacyTier) *GenerateLinkOutput {
	t.Helper()
	out, err := GenerateLink(context.Background(), database, testConfig(), nopSink, GenerateLinkInput{
		Caller: owner, TripID: tripID, Tier: tier,
	})
	if err != nil {
		t.Fatalf("GenerateLink failed: %v", err)
	}
	return out
}

func TestGenerateLink_TokenStableAcrossTierChanges(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	trip := createDraftTrip(t, database, "u1", "Trip")
	first := shareTrip(t, database, "u1", trip.ID, stash.TierCityOnly)
	if first.Reused {
		t.Error("first share reported Reused")
	}
	if first.URL != testConfig().ShareBaseURL+"/"+first.Token {
		t.Errorf("URL = %q", first.URL)
	}

	second := shareTrip(t, database, "u1", trip.ID, stash.TierFull)
	if !second.Reused {
		t.Error("tier change did not report Reused")
	}
	if second.Token != first.Token {
		t.Errorf("token rotated: %q -> %q", first.Token, second.Token)
	}
	if second.Tier != stash.TierFull {
		t.Errorf("Tier = %q, want full", second.Tier)
	}
}

func TestGenerateLink_CompanionForbidden(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "owner", "owner@example.com")
	seedUser(t, database, "u2", "u2@example.com")

	trip := createDraftTrip(t, database, "owner", "Trip")
	_, err := GenerateLink(context.Background(), database, testConfig(), nopSink, GenerateLinkInput{
		Caller: "u2", TripID: trip.ID, Tier: stash.TierFull,
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("stranger share err = %v, want NOT_FOUND", err)
	}
}

// sharedFixture builds a scheduled, populated trip and returns its id.
// Two cities, one item on day 2, one unassigned, notes on one item.
func sharedFixture(t *testing.T, database *sql.DB) string {
	t.Helper()
	ctx := context.Background()
	trip := scheduledTrip(t, database, "u1", "2026-04-01", "2026-04-03")

	ramen, err := SaveItem(ctx, database, emptyFetcher{}, nopSink, SaveItemInput{
		Caller: "u1", Kind: stash.SourceManual, Title: "Ramen bar",
		Category: stash.CategoryRestaurant, City: strPtr("Tokyo"), Notes: strPtr("late seating"),
	})
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
	temple, err := SaveItem(ctx, database, emptyFetcher{}, nopSink, SaveItemInput{
		Caller: "u1", Kind: stash.SourceManual, Title: "Temple walk",
		Category: stash.CategoryActivity, City: strPtr("Kyoto"),
	})
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}

	attach(t, database, "u1", trip.ID, ramen.Item.ID)
	ti := attach(t, database, "u1", trip.ID, temple.Item.ID)
	if _, err := AssignDay(ctx, database, AssignDayInput{
		Caller: "u1", TripID: trip.ID, TripItemID: ti.ID, DayIndex: intPtr(2),
	}); err != nil {
		t.Fatalf("AssignDay failed: %v", err)
	}
	return trip.ID
}

func TestResolve_CityOnlyHidesDatesAndItems(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	tripID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", tripID, stash.TierCityOnly)

	out, err := Resolve(context.Background(), database, nopSink, ResolveInput{Token: link.Token})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out.Tier != stash.TierCityOnly {
		t.Errorf("Tier = %q", out.Tier)
	}
	if len(out.Cities) != 2 || out.Cities[0] != "Tokyo" || out.Cities[1] != "Kyoto" {
		t.Errorf("Cities = %v, want first-appearance order Tokyo, Kyoto", out.Cities)
	}
	if out.StartDate != nil || out.EndDate != nil {
		t.Error("city_only leaked dates")
	}
	if out.Days != nil {
		t.Error("city_only leaked the itinerary")
	}
}

func TestResolve_CityDatesAddsDatesOnly(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	tripID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", tripID, stash.TierCityDates)

	out, err := Resolve(context.Background(), database, nopSink, ResolveInput{Token: link.Token})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out.StartDate == nil || *out.StartDate != "2026-04-01" {
		t.Errorf("StartDate = %v", out.StartDate)
	}
	if out.EndDate == nil || *out.EndDate != "2026-04-03" {
		t.Errorf("EndDate = %v", out.EndDate)
	}
	if out.Days != nil {
		t.Error("city_dates leaked the itinerary")
	}
}

func TestResolve_FullExposesItinerary(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	tripID := sharedFixture(t, database)
	link := shareTrip(t, database, "u1", tripID, stash.TierFull)

	out, err := Resolve(context.Background(), database, nopSink, ResolveInput{Token: link.Token})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(out.Days) != 2 {
		t.Fatalf("Days = %d buckets, want unassigned + day 2", len(out.Days))
	}
	if out.Days[0].Day != 0 || len(out.Days[0].Items) != 1 || out.Days[0].Items[0].Title != "Ramen bar" {
		t.Errorf("unassigned bucket = %+v", out.Days[0])
	}
	if out.Days[0].Items[0].Notes == nil || *out.Days[0].Items[0].Notes != "late seating" {
		t.Errorf("full tier dropped notes: %+v", out.Days[0].Items[0])
	}
	if out.Days[1].Day != 2 || out.Days[1].Date != "2026-04-02" {
		t.Errorf("day bucket = %+v", out.Days[1])
	}
}

func TestResolve_DraftTripAtCityDatesHasNoDates(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	trip := createDraftTrip(t, database, "u1", "Someday")
	link := shareTrip(t, database, "u1", trip.ID, stash.TierCityDates)

	out, err := Resolve(context.Background(), database, nopSink, ResolveInput{Token: link.Token})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if out.StartDate != nil || out.EndDate != nil {
		t.Error("draft trip resolved with dates")
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	database := testDB(t)

	_, err := Resolve(context.Background(), database, nopSink, ResolveInput{Token: "no-such-token"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
