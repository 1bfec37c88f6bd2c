package db

import (
	"database/sql"
	"encoding/json"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// InsertAdoption writes an adopted trip, its copied items and its join
// rows in one transaction, so a mid-copy failure never leaves a partial
// fork visible. The source trip is read elsewhere and never touched here.
func InsertAdoption(database *sql.DB, trip *stash.Trip, items []stash.SavedItem, tripItems []stash.TripItem) error {
	tx, err := database.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = tx.Exec(`
		INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Title, string(trip.Status),
		toNullString(trip.StartDate), toNullString(trip.EndDate),
		toNullString(trip.CoverImage), toNullString(trip.ForkedFromTripID),
		trip.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return errors.NewInternal(err)
	}

	for i := range items {
		item := &items[i]
		var tagsJSON sql.NullString
		if len(item.Tags) > 0 {
			data, err := json.Marshal(item.Tags)
			if err != nil {
				tx.Rollback()
				return errors.NewInternal(err)
			}
			tagsJSON = sql.NullString{String: string(data), Valid: true}
		}
		_, err = tx.Exec(`
			INSERT INTO items (`+itemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.OwnerID, string(item.Kind),
			toNullString(item.SourceURL), toNullString(item.ImageRef), item.Title,
			toNullString(item.Description), toNullString(item.SiteName),
			toNullString(item.City), toNullString(item.Notes),
			tagsJSON, string(item.Category), boolToInt(item.Archived), item.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return errors.NewInternal(err)
		}
	}

	for i := range tripItems {
		ti := &tripItems[i]
		_, err = tx.Exec(`
			INSERT INTO trip_items (`+tripItemColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ti.ID, ti.TripID, ti.ItemID, toNullInt(ti.DayIndex), ti.SortOrder, ti.CreatedAt,
		)
		if err != nil {
			tx.Rollback()
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
