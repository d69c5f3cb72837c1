package cmd

import (
	"context"
	"fmt"

	"student-crm/core/config"
	"student-crm/core/database"
	"student-crm/core/lms"
	"student-crm/core/logger"
	"student-crm/core/storage"
	"student-crm/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	lms    *lms.Client
}

// bootstrap loads configuration, then builds the logger, the database and the LMS client.
func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client := lms.NewClient(cfg.LMS, l)
	if !client.Configured() {
		l.Warn("LMS credentials missing; LMS operations will report not configured")
	}

	return &runtime{cfg: cfg, logger: l, db: db, lms: client}, nil
}

// archive builds the sync report archive. A storage failure disables archiving.
func (rt *runtime) archive(ctx context.Context) *sync.Archive {
	if !rt.cfg.Sync.ArchiveReports {
		return nil
	}

	store, err := storage.NewClient(rt.cfg.Storage)
	if err != nil {
		rt.logger.Warn("Storage client unavailable; sync reports will not be archived", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucket(ctx, store, rt.cfg.Storage.Bucket, rt.cfg.Storage.Region); err != nil {
		rt.logger.Warn("Storage bucket unavailable; sync reports will not be archived", zap.Error(err))
		return nil
	}
	return sync.NewArchive(store, rt.cfg.Storage.Bucket)
}

// syncService builds the student sync service.
func (rt *runtime) syncService(ctx context.Context) *sync.Service {
	return sync.NewService(rt.db, rt.lms, rt.archive(ctx), rt.cfg.Sync, rt.logger)
}
