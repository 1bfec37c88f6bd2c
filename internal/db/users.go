package db

import (
	"database/sql"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// InsertUser stores a new account row. Account lifecycle is external to this
// core; this exists for wiring code and test fixtures.
func InsertUser(database *sql.DB, u *stash.User) error {
	_, err := database.Exec(
		`INSERT INTO users (id, email, display_name, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, stash.NormalizeEmail(u.Email), u.DisplayName, u.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict("an account with that email already exists")
		}
		return errors.NewInternal(err)
	}
	return nil
}

// GetUserByID retrieves an account row.
func GetUserByID(database *sql.DB, id string) (*stash.User, error) {
	var u stash.User
	err := database.QueryRow(
		`SELECT id, email, display_name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("user", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &u, nil
}

// FindUserIDByEmail resolves a normalized email to an account id.
// This is the query behind the elevated directory capability; it must only
// be reached through directory.Directory, never from handler code.
func FindUserIDByEmail(database *sql.DB, email string) (string, bool, error) {
	var id string
	err := database.QueryRow(
		`SELECT id FROM users WHERE email = ?`, stash.NormalizeEmail(email),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewInternal(err)
	}
	return id, true, nil
}
