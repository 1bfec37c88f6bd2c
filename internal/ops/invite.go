package ops

import (
	"context"
	"database/sql"
	"log"
	"net/mail"
	"time"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/db"
	"github.com/avelinek/tripstash/internal/directory"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/mailer"
	"github.com/avelinek/tripstash/internal/stash"
)

// InviteResult describes which branch an invite took.
type InviteResult string

const (
	// InviteResultMember: the email resolved to an account and a
	// Companion row was created.
	InviteResultMember InviteResult = "member"

	// InviteResultAlreadyCompanion: the resolved account was already a
	// member. Reported as a status, not an error.
	InviteResultAlreadyCompanion InviteResult = "already_companion"

	// InviteResultInvited: no account exists; the invitation email went
	// out and a PendingInvite records it.
	InviteResultInvited InviteResult = "invited"
)

// InviteDeps bundles the collaborators the invite flow needs. The
// Directory is the elevated-lookup capability; wiring code constructs it
// once and hands it only here.
type InviteDeps struct {
	Directory directory.Directory
	Mailer    mailer.Sender
	Sink      analytics.Sink
}

// InviteInput contains parameters for the Invite operation.
type InviteInput struct {
	Caller string // required; must be the trip owner
	TripID string // required
	Email  string // required; normalized before use

	// Redirect is handed to the email service as the post-signup
	// destination.
	Redirect string
}

// InviteOutput contains the result of the Invite operation.
type InviteOutput struct {
	Result InviteResult `json:"result"`

	// CompanionID is set for result member / already_companion.
	CompanionID string `json:"companion_id,omitempty"`

	// InviteID is set for result invited, when the record persisted.
	InviteID string `json:"invite_id,omitempty"`
}

// Invite adds a co-traveler by email. The email is resolved to an account
// through the elevated directory capability — the one sanctioned bypass
// of per-user read scoping. A resolvable account becomes a Companion
// immediately; an unknown email gets the invitation email and a
// PendingInvite upsert. A failed send is a hard failure (nothing is
// recorded); a failed upsert after a successful send is soft — the email
// already left, so the operation still reports success and the miss is
// only logged.
func Invite(ctx context.Context, database *sql.DB, deps InviteDeps, input InviteInput) (*InviteOutput, error) {
	if input.Caller == "" {
		return nil, errors.NewInvalidInput("caller is required")
	}
	if input.TripID == "" {
		return nil, errors.NewInvalidInput("trip_id is required")
	}
	email := stash.NormalizeEmail(input.Email)
	if email == "" {
		return nil, errors.NewInvalidInput("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewInvalidInput("email is not a valid address")
	}

	// Only the email resolution below is elevated; the ownership check
	// uses the trip store's normal scoping.
	trip, err := requireTripOwner(database, input.TripID, input.Caller)
	if err != nil {
		return nil, err
	}

	userID, found, err := deps.Directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if found {
		if userID == trip.OwnerID {
			return nil, errors.NewInvalidInput("cannot invite the trip owner")
		}

		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		companion := stash.Companion{
			ID:        id,
			TripID:    input.TripID,
			UserID:    userID,
			Role:      stash.RoleCompanion,
			InvitedAt: time.Now().Unix(),
		}
		err = db.InsertCompanion(database, &companion)
		if err == db.ErrUniqueConstraint {
			return &InviteOutput{Result: InviteResultAlreadyCompanion}, nil
		}
		if err != nil {
			return nil, err
		}

		deps.Sink.Record(analytics.EventCompanionInvited, input.Caller, map[string]any{
			"result": string(InviteResultMember),
		})
		return &InviteOutput{Result: InviteResultMember, CompanionID: companion.ID}, nil
	}

	// No account: the email send is the irreversible step and must
	// succeed before anything is recorded.
	if err := deps.Mailer.SendInvite(ctx, email, input.Redirect); err != nil {
		return nil, errors.NewUpstreamUnavailable("invitation email service", err)
	}

	id, err := generateULID()
	if err != nil {
		// Soft failure: the email is out, report success without a record.
		log.Printf("invite: pending invite id generation failed after send (trip=%s): %v", input.TripID, err)
		return &InviteOutput{Result: InviteResultInvited}, nil
	}
	inviteID, err := db.UpsertPendingInvite(database, &stash.PendingInvite{
		ID:        id,
		TripID:    input.TripID,
		InviterID: input.Caller,
		Email:     email,
		InvitedAt: time.Now().Unix(),
	})
	if err != nil {
		log.Printf("invite: pending invite persist failed after send (trip=%s): %v", input.TripID, err)
		return &InviteOutput{Result: InviteResultInvited}, nil
	}

	deps.Sink.Record(analytics.EventCompanionInvited, input.Caller, map[string]any{
		"result": string(InviteResultInvited),
	})
	return &InviteOutput{Result: InviteResultInvited, InviteID: inviteID}, nil
}
