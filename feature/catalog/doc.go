// Package catalog lists local programs, sub-programs and courses, and proxies the
// LMS class and teacher catalog.
package catalog
