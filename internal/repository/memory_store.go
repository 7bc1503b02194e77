package repository

import (
	"context"
	"sync"
)

// MemoryDocumentStore 内存实现，用于测试和本地演示
type MemoryDocumentStore struct {
	mutex sync.RWMutex
	docs  map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

func (s *MemoryDocumentStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, ok := s.docs[JoinPath(path)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (s *MemoryDocumentStore) Set(ctx context.Context, path string, doc []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data := make([]byte, len(doc))
	copy(data, doc)
	s.docs[JoinPath(path)] = data
	return nil
}

func (s *MemoryDocumentStore) Ping(ctx context.Context) error {
	return nil
}
