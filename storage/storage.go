package storage // import "github.com/tetherhq/tether-read/storage"

import (
	"context"
	"io"
	"time"
)

// ObjectStore holds book bytes. Records in the store reference entries by
// opaque key; readers get at the bytes through presigned links only.
type ObjectStore interface {
	// Put streams an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PresignGet issues a fresh time-limited read link for one object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}
