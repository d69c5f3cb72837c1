// Package students exposes local student profiles and their LMS integration over HTTP:
// linking a student to the LMS by phone, a live view of fees and courses, and session
// credit consumption.
//
// Subpackages hold the gorm models (models), the raw record mapping (normalize) and
// the sync adapter (reconcile).
package students
