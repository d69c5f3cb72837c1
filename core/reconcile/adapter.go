package reconcile

import (
	"context"

	"student-crm/core/lms"

	"gorm.io/gorm"
)

// Adapter holds the model-specific side of a sync run: how remote records are
// normalized, how they are matched against local rows, and how decisions are
// persisted. The engine owns the loop, the transactions and the counters.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "students").
	Name() string

	// Prepare runs once before the first record, outside any per-record transaction.
	// Typical work is get-or-create of shared rows. A failure aborts the run.
	Prepare(ctx context.Context, db *gorm.DB) error

	// Normalize maps a raw remote record to a Record. Any error skips the record.
	Normalize(raw lms.Record) (Record, error)

	// Lookup finds the local entity owning the record key.
	Lookup(ctx context.Context, tx *gorm.DB, rec Record) (Local, error)

	// Apply persists a decision. ActionNone is never passed to Apply.
	Apply(ctx context.Context, tx *gorm.DB, d Decision) error
}

// Source is a lazy sequence of raw remote records. *lms.Iterator satisfies it.
type Source interface {
	Next(ctx context.Context) bool
	Record() lms.Record
	State() lms.State
	Err() error
}

// Spec bundles what a run needs besides its database and source.
type Spec struct {
	// Adapter provides model-specific logic.
	Adapter Adapter

	// Resource names the remote listing being synced; it only labels the report.
	Resource string
}
