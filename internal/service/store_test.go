package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gorm.io/gorm"

	"codepad/internal/constants"
	"codepad/internal/dao"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dao.Open(constants.DBDriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

// sequence 测试用自增 ID
func sequence() func() (int64, error) {
	var mu sync.Mutex
	var n int64
	return func() (int64, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return n, nil
	}
}

type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failGet bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: make(map[string][]byte)}
}

func (m *memBlobStore) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("minio unavailable")
	}
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (m *memBlobStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
