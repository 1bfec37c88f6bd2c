package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// ListItemsInput contains parameters for the ListItems operation.
type ListItemsInput struct {
	Caller string // required

	IncludeArchived bool
	Limit           int // default DefaultListLimit, capped by config
	Offset          int
}

// ListItemsOutput contains the result of the ListItems operation.
type ListItemsOutput struct {
	Items      []stash.SavedItem `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// ListItems returns the caller's saved items newest-first. Archived items
// are excluded unless requested.
func ListItems(ctx context.Context, database *sql.DB, cfg *config.Config, input ListItemsInput) (*ListItemsOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}

	limit, offset := clampPage(input.Limit, input.Offset, cfg.ListMaxLimit)

	items, err := db.ListItems(database, input.Caller, input.IncludeArchived, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.CountItems(database, input.Caller, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	return &ListItemsOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
