// Package media turns uploaded files into durable public URLs.
package media

import (
	"alcyxob/fitness-admin/internal/config"
	"alcyxob/fitness-admin/internal/observability"
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File is an upload taken from a form submission.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Open reads a multipart header into a File. The returned closer must be called
// once the upload has finished.
func Open(fh *multipart.FileHeader) (*File, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// Uploader stores files under generated keys.
type Uploader struct {
	store         storage.FileStorage
	defaultBucket string
	now           func() time.Time
	token         func() string
}

// NewUploader creates an Uploader writing to store. An empty bucket means config.DefaultBucket.
func NewUploader(store storage.FileStorage, bucket string) *Uploader {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		bucket = config.DefaultBucket
	}
	return &Uploader{
		store:         store,
		defaultBucket: bucket,
		now:           time.Now,
		token:         randomToken,
	}
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Extension returns the text after the last "." of name, or name itself when it has no dot.
func Extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Key builds an object key of the form <unix millis>-<token>.<ext>.
func (u *Uploader) Key(name string) string {
	return fmt.Sprintf("%d-%s.%s", u.now().UnixMilli(), u.token(), Extension(name))
}

// Upload stores file in bucket (or the default bucket) and returns its public URL.
// Existing objects under the same key are overwritten.
func (u *Uploader) Upload(ctx context.Context, file *File, bucket string) (string, error) {
	if bucket == "" {
		bucket = u.defaultBucket
	}
	key := u.Key(file.Name)

	err := u.store.Put(ctx, bucket, key, file.Body, file.Size, file.ContentType, true)
	observability.RecordUpload(err)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", file.Name, err)
	}

	slog.DebugContext(ctx, "media uploaded", "bucket", bucket, "key", key, "size", file.Size)
	return u.store.PublicURL(bucket, key), nil
}

// ResolveURL picks the stored value for a media field: an uploaded file wins,
// then the trimmed text, then nil.
func (u *Uploader) ResolveURL(ctx context.Context, file *File, text string) (*string, error) {
	if file != nil {
		url, err := u.Upload(ctx, file, "")
		if err != nil {
			return nil, err
		}
		return &url, nil
	}
	if t := strings.TrimSpace(text); t != "" {
		return &t, nil
	}
	return nil, nil
}
