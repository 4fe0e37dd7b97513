package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	appjobcard "github.com/garagehq/gms-backend/internal/application/jobcard"
	appregistry "github.com/garagehq/gms-backend/internal/application/registry"
)

var (
	_ appjobcard.BlobStore  = (*MemoryBlobStore)(nil)
	_ appregistry.BlobStore = (*MemoryBlobStore)(nil)
)

// MemoryBlobStore keeps blobs in process memory. Used when no bucket is
// configured; suitable for development and tests only.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

type memoryBlob struct {
	data        []byte
	contentType string
}

// NewMemoryBlobStore creates an empty MemoryBlobStore
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string]memoryBlob),
	}
}

// Put stores the bytes under their content hash
func (s *MemoryBlobStore) Put(_ context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("blob data is required")
	}

	sum := sha256.Sum256(data)
	handle := hex.EncodeToString(sum[:]) + extensionFor(contentType)

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[handle] = memoryBlob{data: stored, contentType: contentType}

	return handle, nil
}

// Delete removes a stored blob. Deleting a missing blob is not an error.
func (s *MemoryBlobStore) Delete(_ context.Context, handle string) error {
	if handle == "" {
		return errors.New("blob handle is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, handle)
	return nil
}

// Get returns a stored blob. Test helper.
func (s *MemoryBlobStore) Get(handle string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[handle]
	if !ok {
		return nil, "", false
	}
	return blob.data, blob.contentType, true
}

// Len returns the number of stored blobs. Test helper.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
