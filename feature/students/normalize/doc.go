// Package normalize maps raw LMS student records to reconcile.Record values.
//
// The LMS has shipped several field spellings over time, so every field is read from
// an ordered list of aliases. Phones are only space-stripped; anything shorter than
// ten characters is rejected with ErrInvalidPhone and the record is skipped.
package normalize
