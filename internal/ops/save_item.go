package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/preview"
	"github.com/avelinek/tripstash/internal/stash"
)

// PreviewFetcher is the metadata-fetch collaborator consumed by SaveItem.
// Implementations never error; failure is the zero Preview.
type PreviewFetcher interface {
	Fetch(ctx context.Context, url string) preview.Preview
}

// SaveItemInput contains parameters for the SaveItem operation.
type SaveItemInput struct {
	Caller string // required: the capturing user's id

	Kind      stash.SourceKind // required: url, screenshot, or manual
	SourceURL *string          // required for kind url
	ImageRef  *string          // required for kind screenshot

	Title       string // blank falls back to the fetched page title, then a placeholder
	Description *string
	City        *string
	Notes       *string
	Tags        []string
	Category    stash.Category // default: general
}

// SaveItemOutput contains the result of the SaveItem operation.
type SaveItemOutput struct {
	Item stash.SavedItem `json:"item"`

	// PreviewUsed reports whether fetched metadata seeded any field.
	PreviewUsed bool `json:"preview_used"`
}

// SaveItem captures a new piece of travel inspiration. For kind "url" the
// preview collaborator is consulted; a failed fetch degrades to an
// empty-metadata item rather than an error.
func SaveItem(ctx context.Context, database *sql.DB, fetcher PreviewFetcher, sink analytics.Sink, input SaveItemInput) (*SaveItemOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if !stash.ValidSourceKind(input.Kind) {
		return nil, errors.NewInvalidInput("kind must be one of: url, screenshot, manual")
	}
	if input.Category == "" {
		input.Category = stash.CategoryGeneral
	}
	if !stash.ValidCategory(input.Category) {
		return nil, errors.NewInvalidInput("category must be one of: restaurant, activity, hotel, transit, general")
	}

	item := stash.SavedItem{
		OwnerID:     input.Caller,
		Kind:        input.Kind,
		Description: input.Description,
		City:        stash.NormalizeCity(input.City),
		Notes:       input.Notes,
		Tags:        input.Tags,
		Category:    input.Category,
		CreatedAt:   time.Now().Unix(),
	}

	previewUsed := false
	switch input.Kind {
	case stash.SourceURL:
		if input.SourceURL == nil || !stash.ValidURL(*input.SourceURL) {
			return nil, errors.NewInvalidInput("a valid http(s) source_url is required for kind url")
		}
		item.SourceURL = input.SourceURL

		p := fetcher.Fetch(ctx, *input.SourceURL)
		if input.Title == "" && p.Title != "" {
			input.Title = p.Title
			previewUsed = true
		}
		if item.Description == nil && p.Description != "" {
			d := p.Description
			item.Description = &d
			previewUsed = true
		}
		if p.Image != "" {
			img := p.Image
			item.ImageRef = &img
			previewUsed = true
		}
		if p.SiteName != "" {
			sn := p.SiteName
			item.SiteName = &sn
			previewUsed = true
		}
	case stash.SourceScreenshot:
		if input.ImageRef == nil || *input.ImageRef == "" {
			return nil, errors.NewInvalidInput("image_ref is required for kind screenshot")
		}
		item.ImageRef = input.ImageRef
	case stash.SourceManual:
		// nothing kind-specific
	}

	item.Title = stash.NormalizeTitle(input.Title)

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	item.ID = id

	if err := db.InsertItem(database, &item); err != nil {
		return nil, err
	}

	sink.Record(analytics.EventItemSaved, input.Caller, map[string]any{
		"kind":     string(input.Kind),
		"category": string(item.Category),
	})

	return &SaveItemOutput{Item: item, PreviewUsed: previewUsed}, nil
}
