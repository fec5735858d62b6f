package access

import (
	"github.com/google/uuid"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
	pkgerrors "github.com/atelierliu/renoquote-backend/pkg/errors"
)

// Action is the operation an actor wants to perform on a quote.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Actor is the authenticated (or capability-bearing) caller. Role comes from
// the users table, resolved by the auth middleware on every request, never
// from the token alone. SharedQuoteID is set only when the request presented
// a valid share token and carries the quote that token was minted for.
type Actor struct {
	UserID        uuid.UUID
	Role          enums.Role
	SharedQuoteID uuid.UUID
}

// CanAccess decides whether actor may perform action on quote. Unknown roles,
// unknown actions and missing identities all deny.
func CanAccess(actor Actor, quote *models.Quote, action Action) bool {
	if quote == nil || quote.ID == uuid.Nil {
		return false
	}

	switch action {
	case ActionRead, ActionWrite, ActionDelete:
	default:
		return false
	}

	switch actor.Role {
	case enums.RoleAdmin:
		if actor.UserID == uuid.Nil {
			return false
		}
		return true

	case enums.RoleUser:
		if actor.UserID == uuid.Nil {
			return false
		}
		if action == ActionDelete {
			return false
		}
		return quote.CreatedBy == actor.UserID

	case enums.RoleGuest:
		// Guests never list and never mutate. Reads require the share
		// capability minted for this exact quote.
		return action == ActionRead && actor.SharedQuoteID == quote.ID

	default:
		return false
	}
}

// Require is CanAccess with a typed error for handler plumbing.
func Require(actor Actor, quote *models.Quote, action Action) error {
	if CanAccess(actor, quote, action) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
}
