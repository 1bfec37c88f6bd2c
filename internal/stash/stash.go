package stash

// SourceKind identifies how a saved item was captured.
type SourceKind string

const (
	SourceURL        SourceKind = "url"        // captured from a link; SourceURL is set
	SourceScreenshot SourceKind = "screenshot" // captured from an upload; ImageRef is set
	SourceManual     SourceKind = "manual"     // typed in by hand
)

// ValidSourceKind reports whether k is one of the three capture kinds.
func ValidSourceKind(k SourceKind) bool {
	return k == SourceURL || k == SourceScreenshot || k == SourceManual
}

// Category is the coarse classification of a saved item.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryActivity   Category = "activity"
	CategoryHotel      Category = "hotel"
	CategoryTransit    Category = "transit"
	CategoryGeneral    Category = "general"
)

// Categories lists every category in canonical display order.
var Categories = []Category{
	CategoryRestaurant,
	CategoryActivity,
	CategoryHotel,
	CategoryTransit,
	CategoryGeneral,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultTitle is substituted when a saved item is created with a blank title.
const DefaultTitle = "Untitled item"

// SavedItem represents one piece of captured travel inspiration.
// The kind-specific payload is SourceURL (kind "url") and ImageRef
// (kind "screenshot", or a preview image for kind "url"); the remaining
// fields form the shared core across all three kinds.
type SavedItem struct {
	// ID is a ULID that uniquely identifies this item
	ID string `json:"id"`

	// OwnerID is the user who captured the item; items are never visible
	// to other users except through a share projection
	OwnerID string `json:"owner_id"`

	// Kind is how the item was captured: url, screenshot, or manual
	Kind SourceKind `json:"kind"`

	// SourceURL is the captured link (kind "url" only)
	SourceURL *string `json:"source_url,omitempty"`

	// ImageRef is an opaque reference into external binary storage
	ImageRef *string `json:"image_ref,omitempty"`

	// Title is required; blank titles are replaced with DefaultTitle
	Title string `json:"title"`

	Description *string  `json:"description,omitempty"`
	SiteName    *string  `json:"site_name,omitempty"`
	City        *string  `json:"city,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Category defaults to "general"
	Category Category `json:"category"`

	// Archived items drop out of default listings but are never hard-deleted
	// by itinerary operations
	Archived bool `json:"archived"`

	// CreatedAt is the Unix timestamp when the item was captured
	CreatedAt int64 `json:"created_at"`
}

// TripStatus is the itinerary state of a trip.
type TripStatus string

const (
	// StatusDraft is the initial state: no dates, items live in one
	// unassigned bucket.
	StatusDraft TripStatus = "draft"

	// StatusScheduled means the trip has a start and end date and items
	// may be assigned to 1-based day indices.
	StatusScheduled TripStatus = "scheduled"
)

// PrivacyTier controls how much of a shared trip an anonymous viewer sees.
type PrivacyTier string

const (
	// TierCityOnly exposes the trip title and de-duplicated city list.
	TierCityOnly PrivacyTier = "city_only"

	// TierCityDates adds the date range (when scheduled).
	TierCityDates PrivacyTier = "city_dates"

	// TierFull exposes the complete day-grouped itinerary with item detail.
	TierFull PrivacyTier = "full"
)

// ValidPrivacyTier reports whether p is a known disclosure tier.
func ValidPrivacyTier(p PrivacyTier) bool {
	return p == TierCityOnly || p == TierCityDates || p == TierFull
}

// Trip represents a named travel plan.
type Trip struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"owner_id"`
	Title   string     `json:"title"`
	Status  TripStatus `json:"status"`

	// StartDate/EndDate are YYYY-MM-DD; both set or both nil, never one
	// without the other
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	CoverImage *string `json:"cover_image,omitempty"`

	// ShareToken is minted once on first share and never rotated
	ShareToken   *string      `json:"share_token,omitempty"`
	SharePrivacy *PrivacyTier `json:"share_privacy,omitempty"`

	// ForkedFromTripID points at the trip this one was adopted from.
	// One-directional; the source trip keeps no back-reference.
	ForkedFromTripID *string `json:"forked_from_trip_id,omitempty"`

	CreatedAt int64 `json:"created_at"`
}

// Scheduled reports whether the trip carries a date range.
func (t *Trip) Scheduled() bool {
	return t.Status == StatusScheduled
}

// TripItem is the join row placing a SavedItem on a trip.
type TripItem struct {
	ID     string `json:"id"`
	TripID string `json:"trip_id"`
	ItemID string `json:"item_id"`

	// DayIndex is 1-based within the trip's date range; nil means the
	// item sits in the unassigned bucket
	DayIndex *int `json:"day_index,omitempty"`

	// SortOrder defines display order within one (trip, day) bucket.
	// Ties are legal after cross-bucket moves; readers break them on ID.
	SortOrder int `json:"sort_order"`

	CreatedAt int64 `json:"created_at"`
}

// CompanionRole is the access level of a non-owner trip member.
type CompanionRole string

// RoleCompanion is the only role currently defined.
const RoleCompanion CompanionRole = "companion"

// Companion is a confirmed non-owner membership on a trip.
type Companion struct {
	ID        string        `json:"id"`
	TripID    string        `json:"trip_id"`
	UserID    string        `json:"user_id"`
	Role      CompanionRole `json:"role"`
	InvitedAt int64         `json:"invited_at"`
}

// PendingInvite is a placeholder for an invited email with no account yet.
// Conversion to a Companion happens externally once the account exists.
type PendingInvite struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	InviterID string `json:"inviter_id"`

	// Email is stored case-normalized (trimmed, lowercased)
	Email string `json:"email"`

	InvitedAt int64 `json:"invited_at"`
}

// User is the minimal account shape this core needs: enough to back the
// elevated directory lookup and ownership checks. Account lifecycle
// (signup, sessions) is an external concern.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}
