package students

import "errors"

var (
	// ErrStudentNotFound is returned when no local student has the requested id.
	ErrStudentNotFound = errors.New("student not found")
	// ErrNoMobile is returned when a student has no phone to search the LMS with.
	ErrNoMobile = errors.New("student has no mobile number for lookup")
	// ErrNotLinked is returned when an operation needs an LMS id the student lacks.
	ErrNotLinked = errors.New("student not linked to the LMS")
	// ErrUsernameTaken is returned when another login already uses the username.
	ErrUsernameTaken = errors.New("username already taken")
)
