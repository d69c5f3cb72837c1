package batches

import "errors"

var (
	// ErrBatchNotFound is returned when no batch has the requested id.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrCourseNotFound is returned when a batch references an unknown course.
	ErrCourseNotFound = errors.New("course not found")
	// ErrMentorNotFound is returned when a batch references an unknown mentor.
	ErrMentorNotFound = errors.New("mentor not found")
	// ErrStudentNotFound is returned when the student to assign does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentNotInBatch is returned when removing a student the batch does not hold.
	ErrStudentNotInBatch = errors.New("student not found in this batch")
	// ErrInvalidDates is returned when a batch ends before it starts.
	ErrInvalidDates = errors.New("end date before start date")
)
