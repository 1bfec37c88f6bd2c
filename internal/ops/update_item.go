package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// UpdateItemInput contains parameters for the UpdateItem operation.
// Nil fields are left unchanged.
type UpdateItemInput struct {
	Caller string // required
	ID     string // required

	Title    *string
	Category *stash.Category
	City     *string
	Notes    *string
	Tags     *[]string
}

// UpdateItemOutput contains the result of the UpdateItem operation.
type UpdateItemOutput struct {
	Item stash.SavedItem `json:"item"`
}

// UpdateItem applies partial field updates to an item the caller owns.
// An item owned by someone else reads as NotFound.
func UpdateItem(ctx context.Context, database *sql.DB, input UpdateItemInput) (*UpdateItemOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}
	if input.Title == nil && input.Category == nil && input.City == nil &&
		input.Notes == nil && input.Tags == nil {
		return nil, errors.NewInvalidInput("at least one field must be provided")
	}

	item, err := db.GetItemOwned(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = stash.NormalizeTitle(*input.Title)
	}
	if input.Category != nil {
		if !stash.ValidCategory(*input.Category) {
			return nil, errors.NewInvalidInput("category must be one of: restaurant, activity, hotel, transit, general")
		}
		item.Category = *input.Category
	}
	if input.City != nil {
		item.City = stash.NormalizeCity(input.City)
	}
	if input.Notes != nil {
		if *input.Notes == "" {
			item.Notes = nil
		} else {
			item.Notes = input.Notes
		}
	}
	if input.Tags != nil {
		item.Tags = *input.Tags
	}

	if err := db.UpdateItem(database, item); err != nil {
		return nil, err
	}

	return &UpdateItemOutput{Item: *item}, nil
}
