package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/preview"
	"github.com/avelinek/tripstash/internal/stash"
)

// testDB opens a fresh store in a temp dir.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seedUser(t *testing.T, database *sql.DB, id, email string) {
	t.Helper()
	if err := db.InsertUser(database, &stash.User{ID: id, Email: email, CreatedAt: 1}); err != nil {
		t.Fatalf("InsertUser failed: %v", err)
	}
}

// emptyFetcher always reports no metadata, the degraded-preview path.
type emptyFetcher struct{}

func (emptyFetcher) Fetch(context.Context, string) preview.Preview { return preview.Preview{} }

// stubFetcher returns a fixed preview.
type stubFetcher struct{ p preview.Preview }

func (s stubFetcher) Fetch(context.Context, string) preview.Preview { return s.p }

func previewFor(title string) preview.Preview {
	return preview.Preview{Title: title}
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendInvite(_ context.Context, email, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

var nopSink = analytics.NopSink{}

func testConfig() *config.Config {
	return config.DefaultConfig()
}

// saveManualItem captures a bare manual item for the given owner.
func saveManualItem(t *testing.T, database *sql.DB, owner, title string) stash.SavedItem {
	t.Helper()
	out, err := SaveItem(context.Background(), database, emptyFetcher{}, nopSink, SaveItemInput{
		Caller: owner,
		Kind:   stash.SourceManual,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
	return out.Item
}

// createDraftTrip creates a dateless trip for the given owner.
func createDraftTrip(t *testing.T, database *sql.DB, owner, title string) stash.Trip {
	t.Helper()
	out, err := CreateTrip(context.Background(), database, nopSink, CreateTripInput{
		Caller: owner,
		Title:  title,
	})
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return out.Trip
}

// attach attaches an item and fails the test on error.
func attach(t *testing.T, database *sql.DB, owner, tripID, itemID string) stash.TripItem {
	t.Helper()
	out, err := AttachItem(context.Background(), database, AttachItemInput{
		Caller: owner,
		TripID: tripID,
		ItemID: itemID,
	})
	if err != nil {
		t.Fatalf("AttachItem failed: %v", err)
	}
	return out.TripItem
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
