package sync

import (
	"context"

	"student-crm/core/lms"
	"student-crm/core/reconcile"
	studentsync "student-crm/feature/students/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Source is the part of the LMS client a sync run reads from.
type Source interface {
	Configured() bool
	Iterate(res lms.Resource) *lms.Iterator
}

// Service runs student syncs. Concurrent callers share one in-flight run.
type Service struct {
	db      *gorm.DB
	source  Source
	archive *Archive
	cfg     Config
	logger  *zap.Logger
	group   singleflight.Group
}

// NewService creates a new sync service. archive may be nil.
func NewService(db *gorm.DB, source Source, archive *Archive, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		source:  source,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run syncs LMS students into local profiles and returns the run report. The error
// is non-nil only when the run aborted; the report is returned either way.
// The shared run is detached from the caller's cancellation.
func (s *Service) Run(ctx context.Context) (*reconcile.Report, error) {
	v, err, shared := s.group.Do(lms.Students.Name, func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})
	if shared {
		s.logger.Debug("Joined in-flight sync run")
	}
	report, _ := v.(*reconcile.Report)
	return report, err
}

func (s *Service) run(ctx context.Context) (*reconcile.Report, error) {
	var (
		report *reconcile.Report
		err    error
	)

	if !s.source.Configured() {
		report = reconcile.NewReport(lms.Students.Name).Finish(reconcile.StatusNotConfigured, lms.ErrNotConfigured)
		s.logger.Warn("Sync skipped: LMS not configured")
	} else {
		spec := &reconcile.Spec{
			Adapter:  studentsync.NewAdapter(adapterOptions(s.cfg), s.logger),
			Resource: lms.Students.Name,
		}
		report, err = reconcile.Run(ctx, spec, s.db, s.source.Iterate(lms.Students), s.logger)
	}

	s.store(ctx, report)
	return report, err
}

// store archives the report and prunes old ones. Failures are logged only.
func (s *Service) store(ctx context.Context, report *reconcile.Report) {
	if s.archive == nil || !s.cfg.ArchiveReports || report == nil {
		return
	}
	// Archive even when the run was cancelled.
	ctx = context.WithoutCancel(ctx)

	if err := s.archive.Put(ctx, report); err != nil {
		s.logger.Warn("Failed to archive sync report", zap.String("run_id", report.RunID), zap.Error(err))
		return
	}
	removed, err := s.archive.Prune(ctx, s.cfg.RetainReports)
	if err != nil {
		s.logger.Warn("Failed to prune sync reports", zap.Error(err))
	}
	if removed > 0 {
		s.logger.Debug("Pruned sync reports", zap.Int("removed", removed))
	}
}

// Archive returns the report archive, or nil when archiving is disabled.
func (s *Service) Archive() *Archive {
	if !s.cfg.ArchiveReports {
		return nil
	}
	return s.archive
}
