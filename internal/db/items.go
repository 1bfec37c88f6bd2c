package db

import (
	"database/sql"
	"encoding/json"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

const itemColumns = `id, owner_id, kind, source_url, image_ref, title,
	description, site_name, city, notes, tags_json, category, archived, created_at`

// InsertItem stores a new saved item.
func InsertItem(database *sql.DB, item *stash.SavedItem) error {
	tagsJSON, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}

	_, err = database.Exec(`
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, string(item.Kind),
		toNullString(item.SourceURL), toNullString(item.ImageRef), item.Title,
		toNullString(item.Description), toNullString(item.SiteName),
		toNullString(item.City), toNullString(item.Notes),
		tagsJSON, string(item.Category), boolToInt(item.Archived), item.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetItemOwned retrieves an item scoped to its owner. A row owned by someone
// else reads as NotFound, indistinguishable from a missing row.
func GetItemOwned(database *sql.DB, id, ownerID string) (*stash.SavedItem, error) {
	row := database.QueryRow(
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("item", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return item, nil
}

// GetItem retrieves an item with no owner scoping. Reserved for internal
// read paths that have already established visibility (share projections,
// adoption copies).
func GetItem(database *sql.DB, id string) (*stash.SavedItem, error) {
	row := database.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("item", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return item, nil
}

// UpdateItem rewrites the mutable fields of an item.
// Does NOT change: id, owner_id, kind, created_at.
func UpdateItem(database *sql.DB, item *stash.SavedItem) error {
	tagsJSON, err := marshalTags(item.Tags)
	if err != nil {
		return err
	}

	res, err := database.Exec(`
		UPDATE items SET
			source_url = ?, image_ref = ?, title = ?, description = ?,
			site_name = ?, city = ?, notes = ?, tags_json = ?,
			category = ?, archived = ?
		WHERE id = ? AND owner_id = ?`,
		toNullString(item.SourceURL), toNullString(item.ImageRef), item.Title,
		toNullString(item.Description), toNullString(item.SiteName),
		toNullString(item.City), toNullString(item.Notes), tagsJSON,
		string(item.Category), boolToInt(item.Archived),
		item.ID, item.OwnerID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("item", item.ID)
	}
	return nil
}

// ListItems returns the owner's items newest-first with limit/offset.
// Archived items are excluded unless includeArchived is set.
func ListItems(database *sql.DB, ownerID string, includeArchived bool, limit, offset int) ([]stash.SavedItem, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ?`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := database.Query(query, ownerID, limit, offset)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := []stash.SavedItem{}
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// CountItems returns the owner's item count under the same filter as ListItems.
func CountItems(database *sql.DB, ownerID string, includeArchived bool) (int, error) {
	query := `SELECT COUNT(*) FROM items WHERE owner_id = ?`
	if !includeArchived {
		query += ` AND archived = 0`
	}
	var n int
	if err := database.QueryRow(query, ownerID).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// PurgeArchivedItems hard-deletes the owner's archived items that are not
// attached to any trip. Attached archived items are left alone so trip
// itineraries never lose members to a purge. Returns the number deleted.
func PurgeArchivedItems(database *sql.DB, ownerID string) (int, error) {
	res, err := database.Exec(`
		DELETE FROM items
		WHERE owner_id = ? AND archived = 1
		  AND id NOT IN (SELECT item_id FROM trip_items)`,
		ownerID,
	)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*stash.SavedItem, error) {
	var (
		item     stash.SavedItem
		kind     string
		category string
		archived int
		srcURL   sql.NullString
		imageRef sql.NullString
		desc     sql.NullString
		siteName sql.NullString
		city     sql.NullString
		notes    sql.NullString
		tagsJSON sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.OwnerID, &kind, &srcURL, &imageRef, &item.Title,
		&desc, &siteName, &city, &notes, &tagsJSON, &category, &archived,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = stash.SourceKind(kind)
	item.Category = stash.Category(category)
	item.Archived = archived != 0
	item.SourceURL = fromNullString(srcURL)
	item.ImageRef = fromNullString(imageRef)
	item.Description = fromNullString(desc)
	item.SiteName = fromNullString(siteName)
	item.City = fromNullString(city)
	item.Notes = fromNullString(notes)

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := unmarshalTags(tagsJSON.String, &item.Tags); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

func unmarshalTags(data string, dst *[]string) error {
	return json.Unmarshal([]byte(data), dst)
}

func scanItemRows(rows *sql.Rows) (*stash.SavedItem, error) {
	return scanItem(rows)
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
