package normalize

import (
	"errors"
	"fmt"
	"strings"

	"student-crm/core/lms"
	"student-crm/core/phone"
	"student-crm/core/reconcile"
	"student-crm/core/utils"
)

// ErrInvalidPhone marks a record whose phone is missing or too short to match on.
var ErrInvalidPhone = errors.New("invalid phone")

// Field aliases, in lookup order.
var (
	idKeys    = []string{"_id", "id"}
	phoneKeys = []string{"phoneNumber", "mobile"}
	emailKeys = []string{"email", "emailAddress"}
)

// Normalize maps one raw remote student to a reconcile.Record.
func Normalize(raw lms.Record) (reconcile.Record, error) {
	rec := reconcile.Record{
		ExternalID: ExternalID(raw),
		Phone:      phone.Clean(utils.FirstString(raw, phoneKeys...)),
		Email:      strings.TrimSpace(utils.FirstString(raw, emailKeys...)),
	}
	rec.FirstName, rec.LastName = Names(raw)

	if !phone.Valid(rec.Phone) {
		return rec, fmt.Errorf("student %q phone %q: %w", rec.ExternalID, rec.Phone, ErrInvalidPhone)
	}
	return rec, nil
}

// ExternalID returns the remote identifier, "_id" first then "id".
func ExternalID(raw lms.Record) string {
	return utils.FirstString(raw, idKeys...)
}

// Names returns first and last name. Explicit first_name/last_name win when either is
// set; otherwise "name" is trimmed and split on its first space, the remainder kept
// verbatim.
func Names(raw lms.Record) (first, last string) {
	first = utils.ToString(raw["first_name"])
	last = utils.ToString(raw["last_name"])
	if first != "" || last != "" {
		return first, last
	}

	full := strings.TrimSpace(utils.ToString(raw["name"]))
	if full == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(full, " ")
	return first, last
}

// DisplayName joins the names, falling back to "name" and then "Unknown".
func DisplayName(raw lms.Record) string {
	first, last := Names(raw)
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return "Unknown"
}
