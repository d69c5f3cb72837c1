package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"student-crm/core/reconcile"
	"student-crm/core/storage"

	"github.com/minio/minio-go/v7"
)

// ReportPrefix is the object prefix under which run reports are archived.
const ReportPrefix = "sync-reports/"

// ErrReportNotFound is returned when no archived report has the run id.
var ErrReportNotFound = errors.New("sync report not found")

// ReportInfo describes one archived report.
type ReportInfo struct {
	RunID        string    `json:"run_id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores run reports as JSON objects: sync-reports/<run-id>.json.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an archive in the given bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

func reportKey(runID string) string {
	return ReportPrefix + runID + ".json"
}

// Put stores a report.
func (a *Archive) Put(ctx context.Context, report *reconcile.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, reportKey(report.RunID), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", report.RunID, err)
	}
	return nil
}

// Get loads a report by run id.
func (a *Archive) Get(ctx context.Context, runID string) (*reconcile.Report, error) {
	if runID == "" || strings.ContainsAny(runID, "/.") {
		return nil, ErrReportNotFound
	}

	obj, err := a.client.GetObject(ctx, a.bucket, reportKey(runID), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapNotFound(err, runID)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapNotFound(err, runID)
	}

	var report reconcile.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", runID, err)
	}
	return &report, nil
}

func mapNotFound(err error, runID string) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrReportNotFound
	}
	return fmt.Errorf("failed to read report %s: %w", runID, err)
}

// List returns archived reports, newest first.
func (a *Archive) List(ctx context.Context) ([]ReportInfo, error) {
	var infos []ReportInfo
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: ReportPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		name := path.Base(obj.Key)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		infos = append(infos, ReportInfo{
			RunID:        strings.TrimSuffix(name, ".json"),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	// Run ids are xids, which sort by creation time.
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].RunID > infos[j].RunID
	})
	return infos, nil
}

// Prune deletes all but the newest keep reports and returns how many were removed.
func (a *Archive) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	infos, err := a.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(infos) <= keep {
		return 0, nil
	}

	stale := infos[keep:]
	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, info := range stale {
		objectsCh <- minio.ObjectInfo{Key: info.Key}
	}
	close(objectsCh)

	var errs []error
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove %s: %w", rErr.ObjectName, rErr.Err))
	}
	if len(errs) > 0 {
		return len(stale) - len(errs), errors.Join(errs...)
	}
	return len(stale), nil
}
