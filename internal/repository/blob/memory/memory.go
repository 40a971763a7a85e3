package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"storefront-media/internal/repository/blob"
)

type object struct {
	data        []byte
	contentType string
}

// Storage is an in-memory blob backend. It backs local development and the
// test suites, mirroring MinIO semantics: delete of a missing key is not an
// error, reads of missing keys are.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
}

func New() *Storage {
	return &Storage{
		objects: make(map[string]object),
	}
}

func (s *Storage) Write(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("%w: failed to read object data: %v", blob.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: buf, contentType: contentType}
	return nil
}

func (s *Storage) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Len reports the number of stored objects.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
