package ops

import (
	"context"
	"testing"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

func TestCreateTrip_StatusFromDates(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	draft, err := CreateTrip(ctx, database, nopSink, CreateTripInput{Caller: "u1", Title: "Draft trip"})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if draft.Trip.Status != stash.StatusDraft {
		t.Errorf("dateless trip status = %q, want draft", draft.Trip.Status)
	}

	scheduled, err := CreateTrip(ctx, database, nopSink, CreateTripInput{
		Caller:    "u1",
		Title:     "Scheduled trip",
		StartDate: strPtr("2026-04-01"),
		EndDate:   strPtr("2026-04-03"),
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	if scheduled.Trip.Status != stash.StatusScheduled {
		t.Errorf("dated trip status = %q, want scheduled", scheduled.Trip.Status)
	}
}

func TestCreateTrip_OneDateIsInvalid(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	_, err := CreateTrip(context.Background(), database, nopSink, CreateTripInput{
		Caller:    "u1",
		Title:     "Half dated",
		StartDate: strPtr("2026-04-01"),
	})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCreateTrip_EndBeforeStart(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	_, err := CreateTrip(context.Background(), database, nopSink, CreateTripInput{
		Caller:    "u1",
		Title:     "Backwards",
		StartDate: strPtr("2026-04-05"),
		EndDate:   strPtr("2026-04-01"),
	})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestUpdateTrip_CompanionForbiddenStrangerNotFound(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "owner", "owner@example.com")
	seedUser(t, database, "friend", "friend@example.com")
	seedUser(t, database, "stranger", "stranger@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "owner", "Trip")
	if err := db.InsertCompanion(database, &stash.Companion{
		ID: "c1", TripID: trip.ID, UserID: "friend", Role: stash.RoleCompanion, InvitedAt: 1,
	}); err != nil {
		t.Fatalf("InsertCompanion failed: %v", err)
	}

	_, err := UpdateTrip(ctx, database, UpdateTripInput{Caller: "friend", ID: trip.ID, Title: strPtr("Nope")})
	if !errors.Is(err, errors.ErrForbidden) {
		t.Errorf("companion update err = %v, want FORBIDDEN", err)
	}

	_, err = UpdateTrip(ctx, database, UpdateTripInput{Caller: "stranger", ID: trip.ID, Title: strPtr("Nope")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("stranger update err = %v, want NOT_FOUND", err)
	}

	out, err := UpdateTrip(ctx, database, UpdateTripInput{Caller: "owner", ID: trip.ID, Title: strPtr("Renamed")})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if out.Trip.Title != "Renamed" {
		t.Errorf("Title = %q", out.Trip.Title)
	}
}

func TestDeleteTrip_CascadesButKeepsItems(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "u1", "Doomed")
	item := saveManualItem(t, database, "u1", "Survivor")
	attach(t, database, "u1", trip.ID, item.ID)

	if _, err := DeleteTrip(ctx, database, DeleteTripInput{Caller: "u1", ID: trip.ID}); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}

	if _, err := GetTrip(ctx, database, GetTripInput{Caller: "u1", ID: trip.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("deleted trip read err = %v, want NOT_FOUND", err)
	}

	// The saved item survives the cascade
	items, err := ListItems(ctx, database, testConfig(), ListItemsInput{Caller: "u1"})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items.Items) != 1 || items.Items[0].ID != item.ID {
		t.Error("saved item was deleted with the trip")
	}
}

func TestListTrips_OwnTripsOnly(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	seedUser(t, database, "u2", "u2@example.com")
	ctx := context.Background()

	createDraftTrip(t, database, "u1", "Mine")
	createDraftTrip(t, database, "u2", "Theirs")

	out, err := ListTrips(ctx, database, testConfig(), ListTripsInput{Caller: "u1"})
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(out.Trips) != 1 || out.Trips[0].Title != "Mine" {
		t.Errorf("trips = %+v, want only the caller's", out.Trips)
	}
}

func TestGetTrip_CompanionCanRead(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "owner", "owner@example.com")
	seedUser(t, database, "friend", "friend@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "owner", "Shared reading")
	if err := db.InsertCompanion(database, &stash.Companion{
		ID: "c1", TripID: trip.ID, UserID: "friend", Role: stash.RoleCompanion, InvitedAt: 1,
	}); err != nil {
		t.Fatalf("InsertCompanion failed: %v", err)
	}

	out, err := GetTrip(ctx, database, GetTripInput{Caller: "friend", ID: trip.ID})
	if err != nil {
		t.Fatalf("companion GetTrip failed: %v", err)
	}
	if out.Trip.ID != trip.ID {
		t.Errorf("Trip.ID = %q", out.Trip.ID)
	}
}
