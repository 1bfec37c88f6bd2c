package db

import (
	"database/sql"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// UpsertPendingInvite records an invitation for an email with no account
// yet. Re-inviting the same unconfirmed (trip, email) pair refreshes the
// inviter and timestamp on the existing row instead of duplicating or
// erroring. Returns the id of the surviving row.
func UpsertPendingInvite(database *sql.DB, inv *stash.PendingInvite) (string, error) {
	var id string
	err := database.QueryRow(`
		INSERT INTO pending_invites (id, trip_id, inviter_id, email, invited_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (trip_id, email) DO UPDATE SET
			inviter_id = excluded.inviter_id,
			invited_at = excluded.invited_at
		RETURNING id`,
		inv.ID, inv.TripID, inv.InviterID, inv.Email, inv.InvitedAt,
	).Scan(&id)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id, nil
}

// GetPendingInvite retrieves an invite row by id.
func GetPendingInvite(database *sql.DB, id string) (*stash.PendingInvite, error) {
	var inv stash.PendingInvite
	err := database.QueryRow(
		`SELECT id, trip_id, inviter_id, email, invited_at
		 FROM pending_invites WHERE id = ?`, id,
	).Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.Email, &inv.InvitedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("pending invite", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &inv, nil
}

// FindPendingInvite looks up the invite row for a (trip, email) pair.
// Returns (nil, nil) when none exists.
func FindPendingInvite(database *sql.DB, tripID, email string) (*stash.PendingInvite, error) {
	var inv stash.PendingInvite
	err := database.QueryRow(
		`SELECT id, trip_id, inviter_id, email, invited_at
		 FROM pending_invites WHERE trip_id = ? AND email = ?`,
		tripID, email,
	).Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.Email, &inv.InvitedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &inv, nil
}

// DeletePendingInvite removes an invite row. Idempotent.
func DeletePendingInvite(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM pending_invites WHERE id = ?`, id); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListPendingInvites returns a trip's unredeemed invites oldest-first.
func ListPendingInvites(database *sql.DB, tripID string) ([]stash.PendingInvite, error) {
	rows, err := database.Query(
		`SELECT id, trip_id, inviter_id, email, invited_at
		 FROM pending_invites WHERE trip_id = ? ORDER BY invited_at, id`,
		tripID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	invites := []stash.PendingInvite{}
	for rows.Next() {
		var inv stash.PendingInvite
		if err := rows.Scan(&inv.ID, &inv.TripID, &inv.InviterID, &inv.Email, &inv.InvitedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return invites, nil
}
