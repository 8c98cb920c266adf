// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface covering what the
// loader needs: reading and stating cooked sound files, listing the platform
// folders for integrity checks and removing orphaned objects. Both AWS S3
// and self-hosted MinIO instances are supported.
//
// The Client interface exists so storage interactions can be mocked in unit
// tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	if err := storage.EnsureBucket(ctx, client, config.Bucket, config.Region); err != nil {
//	    return err
//	}
package storage
