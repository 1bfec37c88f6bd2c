package ops

import (
	"context"
	"testing"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

func TestScheduleTrip_DraftToScheduled(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "u1", "Japan 2026")
	out, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller:    "u1",
		ID:        trip.ID,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-03",
	})
	if err != nil {
		t.Fatalf("ScheduleTrip failed: %v", err)
	}
	if out.Trip.Status != stash.StatusScheduled {
		t.Errorf("Status = %q, want scheduled", out.Trip.Status)
	}
	if out.DayCount != 3 {
		t.Errorf("DayCount = %d, want 3 (inclusive range)", out.DayCount)
	}
}

func TestScheduleTrip_EndBeforeStart(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	trip := createDraftTrip(t, database, "u1", "Trip")
	_, err := ScheduleTrip(context.Background(), database, nopSink, ScheduleTripInput{
		Caller:    "u1",
		ID:        trip.ID,
		StartDate: "2026-04-03",
		EndDate:   "2026-04-01",
	})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestUnscheduleTrip_IdempotentOnDraft(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")

	trip := createDraftTrip(t, database, "u1", "Trip")
	out, err := UnscheduleTrip(context.Background(), database, UnscheduleTripInput{Caller: "u1", ID: trip.ID})
	if err != nil {
		t.Fatalf("UnscheduleTrip on a draft failed: %v", err)
	}
	if out.Trip.Status != stash.StatusDraft {
		t.Errorf("Status = %q, want draft", out.Trip.Status)
	}
}

// Unscheduling keeps day indices in place, so a re-schedule with a
// compatible range resurrects the old placements.
func TestScheduleRoundTrip_PreservesDayIndices(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "u1", "Trip")
	if _, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller: "u1", ID: trip.ID, StartDate: "2026-04-01", EndDate: "2026-04-03",
	}); err != nil {
		t.Fatalf("ScheduleTrip failed: %v", err)
	}

	item := saveManualItem(t, database, "u1", "Temple visit")
	ti := attach(t, database, "u1", trip.ID, item.ID)
	if _, err := AssignDay(ctx, database, AssignDayInput{
		Caller: "u1", TripID: trip.ID, TripItemID: ti.ID, DayIndex: intPtr(2),
	}); err != nil {
		t.Fatalf("AssignDay failed: %v", err)
	}

	if _, err := UnscheduleTrip(ctx, database, UnscheduleTripInput{Caller: "u1", ID: trip.ID}); err != nil {
		t.Fatalf("UnscheduleTrip failed: %v", err)
	}

	// While draft, the stale index keeps its numbered bucket.
	mid, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(mid.Unassigned) != 0 {
		t.Error("stale-index item fell into the unassigned bucket")
	}
	if len(mid.Days) != 1 || mid.Days[0].Day != 2 {
		t.Fatalf("Days = %+v, want the single day-2 bucket", mid.Days)
	}
	if mid.Days[0].Date != "" {
		t.Errorf("draft day bucket has date %q, want none", mid.Days[0].Date)
	}

	if _, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller: "u1", ID: trip.ID, StartDate: "2026-05-10", EndDate: "2026-05-12",
	}); err != nil {
		t.Fatalf("re-ScheduleTrip failed: %v", err)
	}

	after, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(after.Days) != 1 || after.Days[0].Day != 2 {
		t.Fatalf("Days = %+v, want the resurrected day-2 bucket", after.Days)
	}
	if after.Days[0].Date != "2026-05-11" {
		t.Errorf("day 2 date = %q, want 2026-05-11 from the new range", after.Days[0].Date)
	}
}

// Rescheduling to a shorter range leaves out-of-range indices untouched.
func TestScheduleTrip_ShorterRangeKeepsStaleIndices(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1", "u1@example.com")
	ctx := context.Background()

	trip := createDraftTrip(t, database, "u1", "Trip")
	if _, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller: "u1", ID: trip.ID, StartDate: "2026-04-01", EndDate: "2026-04-05",
	}); err != nil {
		t.Fatalf("ScheduleTrip failed: %v", err)
	}

	item := saveManualItem(t, database, "u1", "Day five dinner")
	ti := attach(t, database, "u1", trip.ID, item.ID)
	if _, err := AssignDay(ctx, database, AssignDayInput{
		Caller: "u1", TripID: trip.ID, TripItemID: ti.ID, DayIndex: intPtr(5),
	}); err != nil {
		t.Fatalf("AssignDay failed: %v", err)
	}

	out, err := ScheduleTrip(ctx, database, nopSink, ScheduleTripInput{
		Caller: "u1", ID: trip.ID, StartDate: "2026-04-01", EndDate: "2026-04-02",
	})
	if err != nil {
		t.Fatalf("re-ScheduleTrip failed: %v", err)
	}
	if out.DayCount != 2 {
		t.Fatalf("DayCount = %d, want 2", out.DayCount)
	}

	view, err := GroupByDay(ctx, database, GroupByDayInput{Caller: "u1", TripID: trip.ID})
	if err != nil {
		t.Fatalf("GroupByDay failed: %v", err)
	}
	if len(view.Days) != 1 || view.Days[0].Day != 5 {
		t.Fatalf("Days = %+v, want the stale day-5 bucket kept", view.Days)
	}
	if view.Days[0].Date != "" {
		t.Errorf("out-of-range bucket has date %q, want none", view.Days[0].Date)
	}
}
