// Package directory holds the one deliberate exception to "callers only
// see their own data": resolving an invited email to an account id. The
// inviter has no standing authorization to read another person's account
// row, so this lookup runs with elevated privilege. It is modeled as a
// single-purpose capability object constructed in wiring code and handed
// only to the companion workflow — never reachable from handler or client
// code, never a blanket admin mode.
package directory

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/stash"
)

// Directory resolves emails to account ids.
type Directory interface {
	// FindByEmail returns the account id for a (case-normalized) email,
	// or ok=false when no account exists.
	FindByEmail(ctx context.Context, email string) (userID string, ok bool, err error)
}

// SQLDirectory is the production Directory backed by the users table.
type SQLDirectory struct {
	database *sql.DB
}

// New creates a Directory over the shared store.
func New(database *sql.DB) *SQLDirectory {
	return &SQLDirectory{database: database}
}

// FindByEmail resolves the email against the users table.
func (d *SQLDirectory) FindByEmail(_ context.Context, email string) (string, bool, error) {
	return db.FindUserIDByEmail(d.database, stash.NormalizeEmail(email))
}
