package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"student-crm/core/reconcile"
	"student-crm/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k, Size: 10, LastModified: time.Now()}
	}
	close(ch)
	return ch
}

func TestArchive_Put(t *testing.T) {
	client := new(mocks.Client)
	report := reconcile.NewReport("students").Finish(reconcile.StatusCompleted, nil)

	client.On("PutObject", mock.Anything, "bucket", "sync-reports/"+report.RunID+".json", mock.Anything, mock.AnythingOfType("int64"), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/json"
	})).Return(minio.UploadInfo{}, nil)

	require.NoError(t, NewArchive(client, "bucket").Put(context.Background(), report))
	client.AssertExpectations(t)
}

func TestArchive_Get(t *testing.T) {
	client := new(mocks.Client)
	report := reconcile.NewReport("students")
	report.Stats.Created = 3
	report.Finish(reconcile.StatusCompleted, nil)
	data, _ := json.Marshal(report)

	client.On("GetObject", mock.Anything, "bucket", "sync-reports/"+report.RunID+".json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(data)), nil)
	client.On("GetObject", mock.Anything, "bucket", "sync-reports/missing.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	archive := NewArchive(client, "bucket")

	got, err := archive.Get(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stats.Created)
	assert.Equal(t, reconcile.StatusCompleted, got.Status)

	_, err = archive.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = archive.Get(context.Background(), "../etc")
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestArchive_ListNewestFirst(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "bucket", mock.Anything).
		Return(listing("sync-reports/a1.json", "sync-reports/c3.json", "sync-reports/notes.txt", "sync-reports/b2.json"))

	infos, err := NewArchive(client, "bucket").List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "c3", infos[0].RunID)
	assert.Equal(t, "b2", infos[1].RunID)
	assert.Equal(t, "a1", infos[2].RunID)
}

func TestArchive_Prune(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "bucket", mock.Anything).
		Return(listing("sync-reports/a1.json", "sync-reports/b2.json", "sync-reports/c3.json"))

	var removed []string
	client.On("RemoveObjects", mock.Anything, "bucket", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	n, err := NewArchive(client, "bucket").Prune(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"sync-reports/b2.json", "sync-reports/a1.json"}, removed)
}

func TestArchive_PruneKeepsAllWhenUnderLimit(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "bucket", mock.Anything).
		Return(listing("sync-reports/a1.json"))

	n, err := NewArchive(client, "bucket").Prune(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, n)
	client.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
