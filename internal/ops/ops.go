// Package ops implements the core operations of tripstash: the item
// catalog, the trip store, the itinerary engine, the sharing projector and
// the companion workflow. Every operation takes the caller's identity
// explicitly in its input — there is no ambient "current user" — so
// authorization is locally verifiable in tests.
package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampPage applies defaults and caps to a requested page window.
func clampPage(limit, offset, maxLimit int) (int, int) {
	if maxLimit <= 0 {
		maxLimit = MaxListLimit
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// requireTripOwner loads a trip and verifies the caller owns it.
// A missing trip, or a trip the caller has no membership on, reads as
// NotFound so existence is not leaked; a companion attempting an
// owner-only operation gets Forbidden.
func requireTripOwner(database *sql.DB, tripID, callerID string) (*stash.Trip, error) {
	trip, err := db.GetTrip(database, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID == callerID {
		return trip, nil
	}
	isCompanion, err := db.CompanionExists(database, tripID, callerID)
	if err != nil {
		return nil, err
	}
	if isCompanion {
		return nil, errors.NewForbidden("only the trip owner may do this")
	}
	return nil, errors.NewNotFound("trip", tripID)
}

// requireTripMember loads a trip readable by the caller: the owner or a
// confirmed companion. Anyone else gets NotFound.
func requireTripMember(database *sql.DB, tripID, callerID string) (*stash.Trip, error) {
	trip, err := db.GetTrip(database, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID == callerID {
		return trip, nil
	}
	isCompanion, err := db.CompanionExists(database, tripID, callerID)
	if err != nil {
		return nil, err
	}
	if !isCompanion {
		return nil, errors.NewNotFound("trip", tripID)
	}
	return trip, nil
}
