// Package batches manages course cohorts: their mentors and the students
// assigned to them.
package batches
