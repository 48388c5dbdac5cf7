// Package access decides which actor may perform which action on which resource.
// Authorize is pure: callers load the resource, ask for a decision, and only then mutate.
package access

import (
	"github.com/google/uuid"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/model"
)

// Action names an operation gated by the policy.
type Action string

const (
	// Public listing reads.
	ActionViewListing   Action = "listing.view"
	ActionSearchListing Action = "listing.search"

	// Self-service.
	ActionCreateListing Action = "listing.create"
	ActionListOwn       Action = "listing.mine"
	ActionUpdateListing Action = "listing.update"
	ActionDeleteListing Action = "listing.delete"
	ActionSaveListing   Action = "listing.save"
	ActionCreateContact Action = "contact.create"
	ActionReadContact   Action = "contact.read"
	ActionDeleteContact Action = "contact.delete"
	ActionListContacts  Action = "contact.list"
	ActionManageProfile Action = "profile.manage"

	// Administrative.
	ActionListAllListings Action = "admin.listing.list"
	ActionFlagListing     Action = "admin.listing.flag"
	ActionManageUsers     Action = "admin.user.manage"
	ActionBlockUser       Action = "admin.user.block"
)

var adminOnly = map[Action]bool{
	ActionListAllListings: true,
	ActionFlagListing:     true,
	ActionManageUsers:     true,
	ActionBlockUser:       true,
}

// Resource is the state of the record an action targets. The zero value means no record.
type Resource struct {
	// Owner is the owning user; for contacts it is the buyer who authored it.
	Owner uuid.UUID
	// Addressee is the listing owner a contact is addressed to.
	Addressee uuid.UUID
	// Public is true for an active, unflagged listing.
	Public bool
	// Hidden marks a listing whose existence must not leak on denial.
	Hidden bool
}

// ListingResource describes a listing for the policy.
func ListingResource(p *model.Property) Resource {
	return Resource{Owner: p.OwnerID, Public: p.IsPublic(), Hidden: !p.IsPublic()}
}

// ContactResource describes a contact for the policy.
func ContactResource(c *model.Contact) Resource {
	return Resource{Owner: c.BuyerID, Addressee: c.OwnerID}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
	// Conceal is set when the caller must answer "not found" instead of "forbidden".
	Conceal bool
}

const (
	ReasonUnauthenticated = "authentication required"
	ReasonBlocked         = "your account is blocked"
	ReasonNotAuthorized   = "not authorized for this action"
)

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string, conceal bool) Decision {
	return Decision{Reason: reason, Conceal: conceal}
}

// Err converts a denial into the error the caller should return. It returns nil on Allow.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Conceal:
		return apperrors.ErrPropertyNotFound
	case d.Reason == ReasonUnauthenticated:
		return apperrors.ErrInvalidToken
	case d.Reason == ReasonBlocked:
		return apperrors.ErrAccountBlocked
	default:
		return apperrors.ErrNotAuthorized
	}
}

// Authorize evaluates the rules in precedence order: anonymous, blocked, admin, owner, deny.
func Authorize(actor model.Actor, action Action, res Resource) Decision {
	if !actor.Authenticated() {
		if isPublicRead(action, res) {
			return allow()
		}
		return deny(ReasonUnauthenticated, res.Hidden && action == ActionViewListing)
	}
	if actor.Blocked {
		return deny(ReasonBlocked, false)
	}
	if actor.IsAdmin() {
		// Listing content stays with its owner; admins moderate through flags.
		if action == ActionUpdateListing && res.Owner != actor.ID {
			return deny(ReasonNotAuthorized, false)
		}
		return allow()
	}
	if adminOnly[action] {
		return deny(ReasonNotAuthorized, false)
	}

	switch action {
	case ActionViewListing:
		if res.Public || res.Owner == actor.ID {
			return allow()
		}
		return deny(ReasonNotAuthorized, true)
	case ActionSearchListing, ActionCreateListing, ActionListOwn, ActionListContacts, ActionManageProfile:
		return allow()
	case ActionSaveListing:
		// Anyone may save a listing they can see.
		if res.Public {
			return allow()
		}
		return deny(ReasonNotAuthorized, true)
	case ActionCreateContact:
		if res.Public {
			return allow()
		}
		return deny(ReasonNotAuthorized, true)
	case ActionUpdateListing, ActionDeleteListing, ActionDeleteContact:
		if res.Owner == actor.ID {
			return allow()
		}
		return deny(ReasonNotAuthorized, res.Hidden)
	case ActionReadContact:
		if res.Owner == actor.ID || res.Addressee == actor.ID {
			return allow()
		}
	}
	return deny(ReasonNotAuthorized, false)
}

func isPublicRead(action Action, res Resource) bool {
	switch action {
	case ActionSearchListing:
		return true
	case ActionViewListing:
		return res.Public
	}
	return false
}
