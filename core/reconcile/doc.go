// Package reconcile is the sync engine that folds a remote listing into local rows.
//
// # Architecture
//
// 1. Source: a lazy sequence of raw remote records (see lms.Iterator). A source that
//    stops early still hands over everything it read.
//
// 2. Adapter: model-specific logic to normalize a raw record, find its local match by
//    phone key, and persist a decision.
//
// 3. Decide: the pure decision table (create, link, update, none).
//
// 4. Run: the loop and outer failure boundary. It opens one transaction per record,
//    keeps the counters, recovers panics and produces the Report.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: adapter, Resource: lms.Students.Name}
//	report, err := reconcile.Run(ctx, spec, db, client.Iterate(lms.Students), logger)
//	fmt.Println(report.Summary())
//
// # Idempotence
//
// Running twice over an unchanged remote listing creates and links nothing the second
// time: every record that was created or linked in the first run is reported as
// unchanged.
package reconcile
