package db

import (
	"database/sql"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

const tripItemColumns = `id, trip_id, item_id, day_index, sort_order, created_at`

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.StashError{
	Code:    errors.ErrConflict,
	Status:  409,
	Message: "unique constraint violation",
}

// InsertTripItem stores a new trip/item join row. A duplicate (trip, item)
// pair comes back as ErrUniqueConstraint so the attach op can report
// "already attached" instead of failing.
func InsertTripItem(database *sql.DB, ti *stash.TripItem) error {
	_, err := database.Exec(`
		INSERT INTO trip_items (`+tripItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ti.ID, ti.TripID, ti.ItemID, toNullInt(ti.DayIndex), ti.SortOrder, ti.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetTripItem retrieves a join row by id.
func GetTripItem(database *sql.DB, id string) (*stash.TripItem, error) {
	row := database.QueryRow(`SELECT `+tripItemColumns+` FROM trip_items WHERE id = ?`, id)
	ti, err := scanTripItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("trip item", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return ti, nil
}

// FindTripItem looks up the join row for a (trip, item) pair.
// Returns (nil, nil) when the pair is not attached.
func FindTripItem(database *sql.DB, tripID, itemID string) (*stash.TripItem, error) {
	row := database.QueryRow(
		`SELECT `+tripItemColumns+` FROM trip_items WHERE trip_id = ? AND item_id = ?`,
		tripID, itemID,
	)
	ti, err := scanTripItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return ti, nil
}

// NextUnassignedSortOrder returns max sort_order + 1 within the trip's
// unassigned bucket, or 0 if the bucket is empty.
func NextUnassignedSortOrder(database *sql.DB, tripID string) (int, error) {
	var next int
	err := database.QueryRow(
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM trip_items
		 WHERE trip_id = ? AND day_index IS NULL`,
		tripID,
	).Scan(&next)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return next, nil
}

// UpdateTripItemDay rewrites the day_index of a join row in place.
// sort_order is deliberately carried over unchanged on cross-bucket moves;
// callers issue an explicit reorder to fix resulting ties.
func UpdateTripItemDay(database *sql.DB, id string, dayIndex *int) error {
	res, err := database.Exec(
		`UPDATE trip_items SET day_index = ? WHERE id = ?`,
		toNullInt(dayIndex), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("trip item", id)
	}
	return nil
}

// ReorderTripItems rewrites sort_order to list position (0-based) for every
// id in orderedIDs, inside one transaction. A failed or missing update rolls
// the whole batch back; concurrent readers never observe a partial
// renumbering.
func ReorderTripItems(database *sql.DB, tripID string, orderedIDs []string) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	for idx, id := range orderedIDs {
		res, err := tx.Exec(
			`UPDATE trip_items SET sort_order = ? WHERE id = ? AND trip_id = ?`,
			idx, id, tripID,
		)
		if err != nil {
			tx.Rollback()
			return errors.NewInternal(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			tx.Rollback()
			return errors.NewInternal(err)
		}
		if n == 0 {
			tx.Rollback()
			return errors.NewNotFound("trip item", id)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteTripItem removes a join row. The underlying item is untouched.
// Idempotent: deleting an absent row affects nothing and succeeds.
func DeleteTripItem(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM trip_items WHERE id = ?`, id); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListTripItems returns every join row of a trip ordered by bucket then
// sort_order, with ties broken on id for a deterministic full ordering.
func ListTripItems(database *sql.DB, tripID string) ([]stash.TripItem, error) {
	rows, err := database.Query(
		`SELECT `+tripItemColumns+` FROM trip_items
		 WHERE trip_id = ?
		 ORDER BY day_index IS NOT NULL, day_index, sort_order, id`,
		tripID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := []stash.TripItem{}
	for rows.Next() {
		ti, err := scanTripItem(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, *ti)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// TripEntry is a join row paired with its saved item, the shape every
// grouping projection consumes.
type TripEntry struct {
	TripItem stash.TripItem
	Item     stash.SavedItem
}

// ListTripEntries returns the trip's join rows with their items, in the
// same deterministic order as ListTripItems.
func ListTripEntries(database *sql.DB, tripID string) ([]TripEntry, error) {
	rows, err := database.Query(`
		SELECT ti.id, ti.trip_id, ti.item_id, ti.day_index, ti.sort_order, ti.created_at,
		       i.id, i.owner_id, i.kind, i.source_url, i.image_ref, i.title,
		       i.description, i.site_name, i.city, i.notes, i.tags_json,
		       i.category, i.archived, i.created_at
		FROM trip_items ti
		JOIN items i ON i.id = ti.item_id
		WHERE ti.trip_id = ?
		ORDER BY ti.day_index IS NOT NULL, ti.day_index, ti.sort_order, ti.id`,
		tripID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := []TripEntry{}
	for rows.Next() {
		var (
			ti       stash.TripItem
			dayIndex sql.NullInt64
		)
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
		err := rows.Scan(
			&ti.ID, &ti.TripID, &ti.ItemID, &dayIndex, &ti.SortOrder, &ti.CreatedAt,
			&item.ID, &item.OwnerID, &kind, &srcURL, &imageRef, &item.Title,
			&desc, &siteName, &city, &notes, &tagsJSON,
			&category, &archived, &item.CreatedAt,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		ti.DayIndex = fromNullInt(dayIndex)
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
				return nil, errors.NewInternal(err)
			}
		}
		entries = append(entries, TripEntry{TripItem: ti, Item: item})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

// CountTripItemsForItem returns how many trips reference an item.
func CountTripItemsForItem(database *sql.DB, itemID string) (int, error) {
	var n int
	if err := database.QueryRow(
		`SELECT COUNT(*) FROM trip_items WHERE item_id = ?`, itemID,
	).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func scanTripItem(row scanner) (*stash.TripItem, error) {
	var (
		ti       stash.TripItem
		dayIndex sql.NullInt64
	)
	err := row.Scan(&ti.ID, &ti.TripID, &ti.ItemID, &dayIndex, &ti.SortOrder, &ti.CreatedAt)
	if err != nil {
		return nil, err
	}
	ti.DayIndex = fromNullInt(dayIndex)
	return &ti, nil
}
