package db

import (
	"database/sql"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

const tripColumns = `id, owner_id, title, status, start_date, end_date,
	cover_image, share_token, share_privacy, forked_from_trip_id, created_at`

// InsertTrip stores a new trip row.
func InsertTrip(database *sql.DB, trip *stash.Trip) error {
	var privacy *string
	if trip.SharePrivacy != nil {
		p := string(*trip.SharePrivacy)
		privacy = &p
	}
	_, err := database.Exec(`
		INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Title, string(trip.Status),
		toNullString(trip.StartDate), toNullString(trip.EndDate),
		toNullString(trip.CoverImage), toNullString(trip.ShareToken),
		toNullString(privacy), toNullString(trip.ForkedFromTripID),
		trip.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("share token collision")
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetTrip retrieves a trip with no caller scoping. Ops decide visibility.
func GetTrip(database *sql.DB, id string) (*stash.Trip, error) {
	row := database.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE id = ?`, id)
	trip, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("trip", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return trip, nil
}

// GetTripByToken resolves a share token to its trip.
func GetTripByToken(database *sql.DB, token string) (*stash.Trip, error) {
	row := database.QueryRow(`SELECT `+tripColumns+` FROM trips WHERE share_token = ?`, token)
	trip, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("share", token)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return trip, nil
}

// UpdateTrip rewrites the mutable fields of a trip.
// Does NOT change: id, owner_id, forked_from_trip_id, created_at.
func UpdateTrip(database *sql.DB, trip *stash.Trip) error {
	var privacy *string
	if trip.SharePrivacy != nil {
		p := string(*trip.SharePrivacy)
		privacy = &p
	}
	res, err := database.Exec(`
		UPDATE trips SET
			title = ?, status = ?, start_date = ?, end_date = ?,
			cover_image = ?, share_token = ?, share_privacy = ?
		WHERE id = ?`,
		trip.Title, string(trip.Status),
		toNullString(trip.StartDate), toNullString(trip.EndDate),
		toNullString(trip.CoverImage), toNullString(trip.ShareToken),
		toNullString(privacy), trip.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("share token collision")
		}
		return errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("trip", trip.ID)
	}
	return nil
}

// DeleteTrip removes a trip row. The trip_items, companions and
// pending_invites cascades fire inside SQLite via ON DELETE CASCADE.
// Idempotent: deleting an absent trip affects zero rows and succeeds.
func DeleteTrip(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM trips WHERE id = ?`, id); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListTrips returns the owner's trips newest-first with limit/offset.
func ListTrips(database *sql.DB, ownerID string, limit, offset int) ([]stash.Trip, error) {
	rows, err := database.Query(
		`SELECT `+tripColumns+` FROM trips
		 WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	trips := []stash.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return trips, nil
}

// CountTrips returns the owner's trip count.
func CountTrips(database *sql.DB, ownerID string) (int, error) {
	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM trips WHERE owner_id = ?`, ownerID).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

func scanTrip(row scanner) (*stash.Trip, error) {
	var (
		trip       stash.Trip
		status     string
		startDate  sql.NullString
		endDate    sql.NullString
		coverImage sql.NullString
		token      sql.NullString
		privacy    sql.NullString
		forkedFrom sql.NullString
	)
	err := row.Scan(
		&trip.ID, &trip.OwnerID, &trip.Title, &status, &startDate, &endDate,
		&coverImage, &token, &privacy, &forkedFrom, &trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.Status = stash.TripStatus(status)
	trip.StartDate = fromNullString(startDate)
	trip.EndDate = fromNullString(endDate)
	trip.CoverImage = fromNullString(coverImage)
	trip.ShareToken = fromNullString(token)
	trip.ForkedFromTripID = fromNullString(forkedFrom)
	if privacy.Valid {
		p := stash.PrivacyTier(privacy.String)
		trip.SharePrivacy = &p
	}
	return &trip, nil
}
