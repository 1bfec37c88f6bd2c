package ops

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// GenerateLinkInput contains parameters for the GenerateLink operation.
type GenerateLinkInput struct {
	Caller string            // required
	TripID string            // required
	Tier   stash.PrivacyTier // required
}

// GenerateLinkOutput contains the result of the GenerateLink operation.
type GenerateLinkOutput struct {
	Token string            `json:"token"`
	URL   string            `json:"url"`
	Tier  stash.PrivacyTier `json:"tier"`

	// Reused reports that an existing token was kept and only the tier
	// changed.
	Reused bool `json:"reused"`
}

// GenerateLink activates sharing for a trip. The first call mints an
// opaque token; later calls reuse it and only update the privacy tier —
// tokens are never rotated, since rotation would invalidate links already
// handed out.
func GenerateLink(ctx context.Context, database *sql.DB, cfg *config.Config, sink analytics.Sink, input GenerateLinkInput) (*GenerateLinkOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}
	if !stash.ValidPrivacyTier(input.Tier) {
		return nil, errors.NewInvalidInput("tier must be one of: city_only, city_dates, full")
	}

	trip, err := requireTripOwner(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	reused := trip.ShareToken != nil
	if !reused {
		token := uuid.NewString()
		trip.ShareToken = &token
	}
	tier := input.Tier
	trip.SharePrivacy = &tier

	if err := db.UpdateTrip(database, trip); err != nil {
		return nil, err
	}

	if !reused {
		sink.Record(analytics.EventShareCreated, input.Caller, map[string]any{
			"tier": string(tier),
		})
	}

	return &GenerateLinkOutput{
		Token:  *trip.ShareToken,
		URL:    cfg.ShareBaseURL + "/" + *trip.ShareToken,
		Tier:   tier,
		Reused: reused,
	}, nil
}

// SharedItem is the per-item detail exposed at the full tier.
type SharedItem struct {
	Title    string         `json:"title"`
	ImageRef *string        `json:"image_ref,omitempty"`
	Category stash.Category `json:"category"`
	City     *string        `json:"city,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}

// SharedDay is one day bucket of a full-tier projection.
type SharedDay struct {
	// Day is the 1-based day index; 0 marks the unassigned bucket.
	Day   int          `json:"day"`
	Date  string       `json:"date,omitempty"`
	Items []SharedItem `json:"items"`
}

// ResolveOutput is the privacy-scoped projection of a shared trip.
// It is a read-only snapshot: nothing here identifies the owner or the
// companion list, and tiers below full carry no item detail at all.
type ResolveOutput struct {
	Title string            `json:"title"`
	Tier  stash.PrivacyTier `json:"tier"`

	// Cities is the de-duplicated city list in order of first appearance
	// across the trip's items. Present at every tier.
	Cities []string `json:"cities"`

	// StartDate/EndDate appear from tier city_dates up, and only when
	// the trip is scheduled.
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	// Days is the full day-grouped itinerary, tier full only.
	Days []SharedDay `json:"days,omitempty"`
}

// ResolveInput contains parameters for the Resolve operation.
type ResolveInput struct {
	Token string // required; the caller is anonymous
}

// Resolve returns the projection for a share token at the trip's current
// tier. Viewing is an analytics event, never a mutation of the trip.
func Resolve(ctx context.Context, database *sql.DB, sink analytics.Sink, input ResolveInput) (*ResolveOutput, error) {
	if input.Token == "" {
		return nil, errors.NewInvalidInput("token is required")
	}

	trip, err := db.GetTripByToken(database, input.Token)
	if err != nil {
		return nil, err
	}
	if trip.SharePrivacy == nil {
		// Token without a tier should not happen; treat as unshared.
		return nil, errors.NewNotFound("share", input.Token)
	}
	tier := *trip.SharePrivacy

	entries, err := db.ListTripEntries(database, trip.ID)
	if err != nil {
		return nil, err
	}

	out := &ResolveOutput{
		Title:  trip.Title,
		Tier:   tier,
		Cities: cityList(entries),
	}

	if (tier == stash.TierCityDates || tier == stash.TierFull) && trip.Scheduled() {
		out.StartDate = trip.StartDate
		out.EndDate = trip.EndDate
	}

	if tier == stash.TierFull {
		out.Days = sharedDays(trip, entries)
	}

	sink.Record(analytics.EventShareViewed, "", map[string]any{
		"tier": string(tier),
	})

	return out, nil
}

// cityList returns the de-duplicated cities across entries in order of
// first appearance.
func cityList(entries []db.TripEntry) []string {
	cities := []string{}
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Item.City == nil {
			continue
		}
		city := *e.Item.City
		if city == "" || seen[city] {
			continue
		}
		seen[city] = true
		cities = append(cities, city)
	}
	return cities
}

// sharedDays builds the full-tier day grouping, unassigned bucket first
// (day 0), then ascending days.
func sharedDays(trip *stash.Trip, entries []db.TripEntry) []SharedDay {
	var r *stash.DateRange
	if trip.StartDate != nil && trip.EndDate != nil {
		r, _ = stash.NewDateRange(*trip.StartDate, *trip.EndDate)
	}
	dayCount := stash.DayCount(trip)

	unassigned := SharedDay{Day: 0, Items: []SharedItem{}}
	byDay := map[int][]SharedItem{}
	var dayOrder []int

	for _, e := range entries {
		item := SharedItem{
			Title:    e.Item.Title,
			ImageRef: e.Item.ImageRef,
			Category: e.Item.Category,
			City:     e.Item.City,
			Notes:    e.Item.Notes,
		}
		if e.TripItem.DayIndex == nil {
			unassigned.Items = append(unassigned.Items, item)
			continue
		}
		d := *e.TripItem.DayIndex
		if _, ok := byDay[d]; !ok {
			dayOrder = append(dayOrder, d)
		}
		byDay[d] = append(byDay[d], item)
	}

	days := []SharedDay{unassigned}
	// entries arrive day-ascending from the store, so dayOrder is sorted
	for _, d := range dayOrder {
		sd := SharedDay{Day: d, Items: byDay[d]}
		if r != nil && d <= dayCount {
			sd.Date = r.DateOfDay(d).Format(stash.DateLayout)
		}
		days = append(days, sd)
	}
	return days
}
