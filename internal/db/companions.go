package db

import (
	"database/sql"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// InsertCompanion stores a confirmed membership row. A duplicate
// (trip, user) pair comes back as ErrUniqueConstraint.
func InsertCompanion(database *sql.DB, c *stash.Companion) error {
	_, err := database.Exec(`
		INSERT INTO companions (id, trip_id, user_id, role, invited_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TripID, c.UserID, string(c.Role), c.InvitedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetCompanion retrieves a membership row by id.
func GetCompanion(database *sql.DB, id string) (*stash.Companion, error) {
	var (
		c    stash.Companion
		role string
	)
	err := database.QueryRow(
		`SELECT id, trip_id, user_id, role, invited_at FROM companions WHERE id = ?`, id,
	).Scan(&c.ID, &c.TripID, &c.UserID, &role, &c.InvitedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("companion", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	c.Role = stash.CompanionRole(role)
	return &c, nil
}

// CompanionExists reports whether the (trip, user) pair is already a member.
func CompanionExists(database *sql.DB, tripID, userID string) (bool, error) {
	var one int
	err := database.QueryRow(
		`SELECT 1 FROM companions WHERE trip_id = ? AND user_id = ? LIMIT 1`,
		tripID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// DeleteCompanion removes a membership row. Idempotent.
func DeleteCompanion(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM companions WHERE id = ?`, id); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListCompanions returns a trip's confirmed members oldest-first.
func ListCompanions(database *sql.DB, tripID string) ([]stash.Companion, error) {
	rows, err := database.Query(
		`SELECT id, trip_id, user_id, role, invited_at FROM companions
		 WHERE trip_id = ? ORDER BY invited_at, id`,
		tripID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	companions := []stash.Companion{}
	for rows.Next() {
		var (
			c    stash.Companion
			role string
		)
		if err := rows.Scan(&c.ID, &c.TripID, &c.UserID, &role, &c.InvitedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		c.Role = stash.CompanionRole(role)
		companions = append(companions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return companions, nil
}
