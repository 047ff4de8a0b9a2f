package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned by Put when overwrite is false and the key is taken.
var ErrObjectExists = errors.New("object already exists")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// Put stores body under bucket/key. With overwrite false an existing object
	// makes the call fail with ErrObjectExists.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string, overwrite bool) error

	// PublicURL returns the URL under which a stored object can be fetched without credentials.
	PublicURL(bucket, key string) string
}
