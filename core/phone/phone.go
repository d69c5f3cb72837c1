// Package phone holds the phone-number matching policy shared by the LMS adapter
// and the reconciliation engine.
//
// Matching is deliberately fuzzy: two numbers are the same person when the last
// KeyLength characters of their space-stripped forms are equal. "+919988776655",
// "09988776655" and "99887 76655" all share the key "9988776655". Distinct numbers
// that differ only before their last ten digits (different country codes) collide;
// this is accepted and not resolved here.
package phone

import "strings"

// KeyLength is the number of trailing characters compared.
const KeyLength = 10

// Clean strips spaces. No other canonicalization (dashes, country codes) is applied.
func Clean(raw string) string {
	return strings.ReplaceAll(raw, " ", "")
}

// Valid reports whether the cleaned number is long enough to produce a key.
func Valid(raw string) bool {
	return len(Clean(raw)) >= KeyLength
}

// Key returns the matching key: the last KeyLength characters of the cleaned number.
// Shorter numbers are returned whole.
func Key(raw string) string {
	c := Clean(raw)
	if len(c) <= KeyLength {
		return c
	}
	return c[len(c)-KeyLength:]
}

// Matches reports whether stored ends with the key of candidate.
func Matches(stored, candidate string) bool {
	key := Key(candidate)
	return key != "" && strings.HasSuffix(Clean(stored), key)
}
