package reconcile

import (
	"context"
	"errors"
	"fmt"

	"student-crm/core/lms"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run syncs every record of src into the local database.
//
// Each record is normalized, matched and applied inside its own transaction; a failed
// record is rolled back, counted in Errors and the loop continues. A source that stops
// early yields StatusAbortedResource. Context cancellation, a Prepare failure or a
// panic stop the run with StatusAborted and a non-nil error. The report is returned in
// every case and always carries the counts reached so far.
func Run(ctx context.Context, spec *Spec, db *gorm.DB, src Source, logger *zap.Logger) (report *Report, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report = NewReport(spec.Resource)
	log := logger.With(
		zap.String("run_id", report.RunID),
		zap.String("adapter", spec.Adapter.Name()),
		zap.String("resource", spec.Resource),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync panicked: %v", r)
			report.Finish(StatusAborted, err)
			log.Error("Sync aborted by panic", zap.Any("panic", r), zap.Any("stats", report.Stats))
		}
	}()

	log.Info("Sync started")

	if err := spec.Adapter.Prepare(ctx, db.WithContext(ctx)); err != nil {
		err = fmt.Errorf("prepare: %w", err)
		report.Finish(StatusAborted, err)
		log.Error("Sync aborted", zap.Error(err))
		return report, err
	}

	for src.Next(ctx) {
		if err := ctx.Err(); err != nil {
			report.Finish(StatusAborted, err)
			log.Warn("Sync cancelled", zap.Any("stats", report.Stats))
			return report, err
		}

		report.Stats.Scanned++
		runRecord(ctx, spec.Adapter, db, src.Record(), &report.Stats, log)
	}

	if err := ctx.Err(); err != nil {
		report.Finish(StatusAborted, err)
		log.Warn("Sync cancelled", zap.Any("stats", report.Stats))
		return report, err
	}

	switch src.State() {
	case lms.Aborted:
		if errors.Is(src.Err(), lms.ErrNotConfigured) {
			report.Finish(StatusNotConfigured, src.Err())
			log.Warn("Sync skipped: LMS not configured")
			return report, nil
		}
		report.Truncated = true
		report.Finish(StatusAbortedResource, src.Err())
		log.Warn("Sync finished with truncated source", zap.Error(src.Err()), zap.Any("stats", report.Stats))
	default:
		report.Finish(StatusCompleted, nil)
		log.Info("Sync completed", zap.Any("stats", report.Stats), zap.Duration("took", report.Duration()))
	}
	return report, nil
}

// runRecord processes one remote record and updates stats. It never returns an error:
// failures are counted and logged.
func runRecord(ctx context.Context, adapter Adapter, db *gorm.DB, raw lms.Record, stats *Stats, log *zap.Logger) {
	rec, err := adapter.Normalize(raw)
	if err != nil {
		stats.Skipped++
		log.Debug("Skipping record", zap.Error(err))
		return
	}

	var action Action
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		local, err := adapter.Lookup(ctx, tx, rec)
		if err != nil {
			return fmt.Errorf("lookup: %w", err)
		}

		d := Decide(local, rec)
		action = d.Action
		if d.Action == ActionNone {
			return nil
		}
		if err := adapter.Apply(ctx, tx, d); err != nil {
			return fmt.Errorf("%s: %w", d.Action, err)
		}
		return nil
	})
	if err != nil {
		stats.Errors++
		log.Warn("Record failed",
			zap.String("external_id", rec.ExternalID),
			zap.String("phone_key", rec.Key()),
			zap.Error(err))
		return
	}

	stats.Add(action)
	if action != ActionNone {
		log.Debug("Record applied", zap.String("action", string(action)), zap.String("external_id", rec.ExternalID))
	}
}
