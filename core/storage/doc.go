// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that the sync report
// archive can be tested against core/storage/mocks. Both AWS S3 and self-hosted
// MinIO are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket (see EnsureBucket)
//   - PutObject / GetObject: store and read report documents
//   - ListObjects: enumerate archived reports
//   - RemoveObjects: prune old reports in one batch
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
