package files

import (
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
)

// DeleteStorage removes the object for key.
func (a *Adapter) DeleteStorage(ctx context.Context, key string) error {
	if a.client == nil {
		return fmt.Errorf("storage client not set")
	}
	return a.client.RemoveObject(ctx, a.bucket, path.Join(a.prefix, key), minio.RemoveObjectOptions{})
}

// DeleteStorageBatch removes the objects for keys in one request.
func (a *Adapter) DeleteStorageBatch(ctx context.Context, keys []string) error {
	if a.client == nil {
		return fmt.Errorf("storage client not set")
	}
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: path.Join(a.prefix, key)}
	}
	close(objectsCh)

	errorCh := a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{})

	var errs []string
	for err := range errorCh {
		if err.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", err.ObjectName, err.Err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("batch delete had %d errors: %v", len(errs), errs)
	}
	return nil
}
