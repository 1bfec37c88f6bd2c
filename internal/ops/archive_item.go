package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
)

// ArchiveItemInput contains parameters for the ArchiveItem operation.
type ArchiveItemInput struct {
	Caller string // required
	ID     string // required
}

// ArchiveItemOutput contains the result of the ArchiveItem operation.
type ArchiveItemOutput struct {
	ID       string `json:"id"`
	Archived bool   `json:"archived"`

	// WasArchived reports whether the item was already archived; the
	// operation is idempotent either way.
	WasArchived bool `json:"was_archived"`
}

// ArchiveItem soft-deletes an item: it drops out of default listings but
// stays attached to any trips referencing it. Idempotent so retries are
// always safe.
func ArchiveItem(ctx context.Context, database *sql.DB, input ArchiveItemInput) (*ArchiveItemOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.ID == "" {
		return nil, errors.NewInvalidInput("id is required")
	}

	item, err := db.GetItemOwned(database, input.ID, input.Caller)
	if err != nil {
		return nil, err
	}

	if item.Archived {
		return &ArchiveItemOutput{ID: item.ID, Archived: true, WasArchived: true}, nil
	}

	item.Archived = true
	if err := db.UpdateItem(database, item); err != nil {
		return nil, err
	}

	return &ArchiveItemOutput{ID: item.ID, Archived: true, WasArchived: false}, nil
}

// PurgeArchivedInput contains parameters for the PurgeArchived operation.
type PurgeArchivedInput struct {
	Caller string // required
}

// PurgeArchivedOutput contains the result of the PurgeArchived operation.
type PurgeArchivedOutput struct {
	Deleted int `json:"deleted"`
}

// PurgeArchived hard-deletes the caller's archived items that no trip
// references. Archived items still attached to a trip are skipped so
// itineraries never lose members.
func PurgeArchived(ctx context.Context, database *sql.DB, input PurgeArchivedInput) (*PurgeArchivedOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}

	n, err := db.PurgeArchivedItems(database, input.Caller)
	if err != nil {
		return nil, err
	}
	return &PurgeArchivedOutput{Deleted: n}, nil
}
