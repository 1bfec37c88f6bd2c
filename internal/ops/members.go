package ops

import (
	"context"
	"database/sql"

	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/stash"
)

// ListMembersInput contains parameters for the ListMembers operation.
type ListMembersInput struct {
	Caller string // required
	TripID string // required
}

// ListMembersOutput contains the result of the ListMembers operation.
type ListMembersOutput struct {
	Companions     []stash.Companion     `json:"companions"`
	PendingInvites []stash.PendingInvite `json:"pending_invites"`
}

// ListMembers returns a trip's confirmed companions and unredeemed
// invites. Readable by the owner and companions; the pending-invite list
// is owner-only and comes back empty for companions.
func ListMembers(ctx context.Context, database *sql.DB, input ListMembersInput) (*ListMembersOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}

	trip, err := requireTripMember(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	companions, err := db.ListCompanions(database, input.TripID)
	if err != nil {
		return nil, err
	}

	out := &ListMembersOutput{Companions: companions, PendingInvites: []stash.PendingInvite{}}
	if trip.OwnerID == input.Caller {
		invites, err := db.ListPendingInvites(database, input.TripID)
		if err != nil {
			return nil, err
		}
		out.PendingInvites = invites
	}
	return out, nil
}

// RemoveCompanionInput contains parameters for the RemoveCompanion operation.
type RemoveCompanionInput struct {
	Caller      string // required; must be the trip owner
	TripID      string // required
	CompanionID string // required
}

// RemoveCompanionOutput contains the result of the RemoveCompanion operation.
type RemoveCompanionOutput struct {
	ID string `json:"id"`
}

// RemoveCompanion revokes a confirmed membership. Owner only; idempotent.
func RemoveCompanion(ctx context.Context, database *sql.DB, input RemoveCompanionInput) (*RemoveCompanionOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" || input.CompanionID == "" {
		return nil, errors.NewInvalidInput("trip_id and companion_id are required")
	}

	if _, err := requireTripOwner(database, input.TripID, input.Caller); err != nil {
		return nil, err
	}

	companion, err := db.GetCompanion(database, input.CompanionID)
	if errors.Is(err, errors.ErrNotFound) {
		return &RemoveCompanionOutput{ID: input.CompanionID}, nil
	}
	if err != nil {
		return nil, err
	}
	if companion.TripID != input.TripID {
		return nil, errors.NewNotFound("companion", input.CompanionID)
	}

	if err := db.DeleteCompanion(database, input.CompanionID); err != nil {
		return nil, err
	}
	return &RemoveCompanionOutput{ID: input.CompanionID}, nil
}

// RevokePendingInviteInput contains parameters for the RevokePendingInvite operation.
type RevokePendingInviteInput struct {
	Caller   string // required; must be the trip owner
	TripID   string // required
	InviteID string // required
}

// RevokePendingInviteOutput contains the result of the RevokePendingInvite operation.
type RevokePendingInviteOutput struct {
	ID string `json:"id"`
}

// RevokePendingInvite withdraws an unredeemed invite. Owner only;
// idempotent. A later invite to the same email creates a fresh record,
// not a reactivation of this one.
func RevokePendingInvite(ctx context.Context, database *sql.DB, input RevokePendingInviteInput) (*RevokePendingInviteOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" || input.InviteID == "" {
		return nil, errors.NewInvalidInput("trip_id and invite_id are required")
	}

	if _, err := requireTripOwner(database, input.TripID, input.Caller); err != nil {
		return nil, err
	}

	invite, err := db.GetPendingInvite(database, input.InviteID)
	if errors.Is(err, errors.ErrNotFound) {
		return &RevokePendingInviteOutput{ID: input.InviteID}, nil
	}
	if err != nil {
		return nil, err
	}
	if invite.TripID != input.TripID {
		return nil, errors.NewNotFound("pending invite", input.InviteID)
	}

	if err := db.DeletePendingInvite(database, input.InviteID); err != nil {
		return nil, err
	}
	return &RevokePendingInviteOutput{ID: input.InviteID}, nil
}
