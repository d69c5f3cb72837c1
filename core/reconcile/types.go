package reconcile

import (
	"student-crm/core/phone"
)

// Record is a remote entity after normalization. It is ephemeral: built from one
// remote record, decided on, applied, then dropped.
type Record struct {
	// ExternalID is the identifier assigned by the remote system. Empty when the
	// remote record carried none.
	ExternalID string `json:"external_id"`

	// FirstName is the given name, possibly empty.
	FirstName string `json:"first_name"`

	// LastName is the family name, possibly empty.
	LastName string `json:"last_name"`

	// Phone is the space-stripped phone number, at least phone.KeyLength long.
	Phone string `json:"phone"`

	// Email is the remote email address, possibly empty.
	Email string `json:"email"`
}

// Key returns the phone matching key of the record.
func (r Record) Key() string {
	return phone.Key(r.Phone)
}

// Local is the view of the matched local entity that decisions are made on.
type Local struct {
	// Found reports whether a local entity matched the record key.
	Found bool

	// ID is the primary key of the matched entity.
	ID uint

	// ExternalID is the stored remote identifier, empty when unlinked.
	ExternalID string

	// Email is the stored email address.
	Email string
}

// Action is the mutation chosen for one record.
type Action string

const (
	// ActionCreate inserts a new local entity.
	ActionCreate Action = "create"
	// ActionLink stores the remote identifier on an existing entity.
	ActionLink Action = "link"
	// ActionUpdate refreshes the email of an already linked entity.
	ActionUpdate Action = "update"
	// ActionNone leaves the entity untouched.
	ActionNone Action = "none"
)

// Decision is the outcome of Decide for one record.
type Decision struct {
	// Action is the mutation to apply.
	Action Action

	// Record is the normalized remote record.
	Record Record

	// Local is the matched entity (zero value for ActionCreate).
	Local Local

	// SetEmail reports whether Apply must overwrite the stored email.
	SetEmail bool
}
