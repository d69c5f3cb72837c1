// Package utils provides conversion helpers for the loosely typed JSON payloads the
// LMS returns: numbers that should be strings, strings that should be numbers, and
// nested objects that may or may not be present.
package utils
