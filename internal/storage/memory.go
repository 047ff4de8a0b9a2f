package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Object is a stored blob held by MemoryStorage.
type Object struct {
	Data        []byte
	ContentType string
}

// MemoryStorage keeps objects in process memory. Used for tests and the "memory" storage driver.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]Object
	baseURL string
}

// NewMemoryStorage returns an empty store whose public URLs start with baseURL
// (for example "/media" when the console serves the objects itself).
func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]Object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func objectPath(bucket, key string) string {
	return bucket + "/" + key
}

func (m *MemoryStorage) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p := objectPath(bucket, key)
	if _, ok := m.objects[p]; ok && !overwrite {
		return fmt.Errorf("%s: %w", p, ErrObjectExists)
	}
	m.objects[p] = Object{Data: data, ContentType: contentType}
	return nil
}

func (m *MemoryStorage) PublicURL(bucket, key string) string {
	return m.baseURL + "/" + objectPath(bucket, key)
}

// Get returns the object stored at path "bucket/key".
func (m *MemoryStorage) Get(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[strings.TrimPrefix(path, "/")]
	return obj, ok
}
