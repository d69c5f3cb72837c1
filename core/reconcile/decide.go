package reconcile

// Decide picks the action for a normalized record given its local match.
//
//	local missing                       -> create
//	remote id set and differs from local -> link (email too when it changed)
//	email non-empty and changed          -> update
//	otherwise                            -> none
//
// A record without a remote id never links, so it cannot clear a stored id.
func Decide(local Local, rec Record) Decision {
	d := Decision{Record: rec, Local: local}

	if !local.Found {
		d.Action = ActionCreate
		return d
	}

	d.SetEmail = rec.Email != "" && rec.Email != local.Email

	switch {
	case rec.ExternalID != "" && rec.ExternalID != local.ExternalID:
		d.Action = ActionLink
	case d.SetEmail:
		d.Action = ActionUpdate
	default:
		d.Action = ActionNone
	}
	return d
}
