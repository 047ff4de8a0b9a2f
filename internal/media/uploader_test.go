package media

import (
	"alcyxob/fitness-admin/internal/storage"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedUploader(store storage.FileStorage) *Uploader {
	u := NewUploader(store, "")
	u.now = func() time.Time { return time.UnixMilli(1700000000123) }
	u.token = func() string { return "k3x9" }
	return u
}

func TestExtension(t *testing.T) {
	require.Equal(t, "png", Extension("curl.png"))
	require.Equal(t, "gz", Extension("archive.tar.gz"))
	require.Equal(t, "README", Extension("README"))
	require.Equal(t, "", Extension("trailing."))
}

func TestUploadUsesDefaultBucketAndKeyFormat(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.com")
	u := fixedUploader(store)

	url, err := u.Upload(context.Background(), &File{Name: "curl.png", ContentType: "image/png", Body: strings.NewReader("x")}, "")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/media/1700000000123-k3x9.png", url)

	obj, ok := store.Get("media/1700000000123-k3x9.png")
	require.True(t, ok)
	require.Equal(t, "image/png", obj.ContentType)
}

func TestUploadOverwritesExistingKey(t *testing.T) {
	store := storage.NewMemoryStorage("")
	u := fixedUploader(store)
	ctx := context.Background()

	_, err := u.Upload(ctx, &File{Name: "a.jpg", Body: strings.NewReader("1")}, "videos")
	require.NoError(t, err)
	_, err = u.Upload(ctx, &File{Name: "a.jpg", Body: strings.NewReader("2")}, "videos")
	require.NoError(t, err)

	obj, ok := store.Get("videos/1700000000123-k3x9.jpg")
	require.True(t, ok)
	require.Equal(t, "2", string(obj.Data))
}

type failingStorage struct{ err error }

func (f failingStorage) Put(context.Context, string, string, io.Reader, int64, string, bool) error {
	return f.err
}

func (f failingStorage) PublicURL(bucket, key string) string { return bucket + "/" + key }

func TestUploadPropagatesProviderError(t *testing.T) {
	boom := errors.New("bucket not found")
	u := NewUploader(failingStorage{err: boom}, "media")

	_, err := u.Upload(context.Background(), &File{Name: "a.png", Body: strings.NewReader("")}, "")
	require.ErrorIs(t, err, boom)

	_, err = u.ResolveURL(context.Background(), &File{Name: "a.png", Body: strings.NewReader("")}, "https://ignored")
	require.ErrorIs(t, err, boom)
}

func TestResolveURLPrecedence(t *testing.T) {
	ctx := context.Background()
	u := fixedUploader(storage.NewMemoryStorage("/files"))

	got, err := u.ResolveURL(ctx, &File{Name: "v.mp4", Body: strings.NewReader("v")}, "https://example.com/other.mp4")
	require.NoError(t, err)
	require.Equal(t, "/files/media/1700000000123-k3x9.mp4", *got)

	got, err = u.ResolveURL(ctx, nil, "  https://example.com/v.mp4 ")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/v.mp4", *got)

	got, err = u.ResolveURL(ctx, nil, "   ")
	require.NoError(t, err)
	require.Nil(t, got)
}
