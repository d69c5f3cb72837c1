// Package sync runs the LMS student synchronization and keeps its reports.
//
// A run walks the LMS student listing through the reconcile engine with the students
// adapter. Runs triggered concurrently (HTTP and CLI in one process) share one
// execution through singleflight. Every report is archived in object storage under
// sync-reports/<run-id>.json and old reports beyond the retention count are pruned.
package sync
