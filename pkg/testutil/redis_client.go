package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/questx-lab/lottery/pkg/xredis"
)

type MockRedisClient struct {
	DelFunc    func(ctx context.Context, key ...string) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return xredis.ErrNotFound
}

// MemoryRedisClient is an xredis.Client kept in memory. Entries never expire.
type MemoryRedisClient struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryRedisClient() *MemoryRedisClient {
	return &MemoryRedisClient{items: map[string][]byte{}}
}

func (m *MemoryRedisClient) Del(ctx context.Context, key ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range key {
		delete(m.items, k)
	}

	return nil
}

func (m *MemoryRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = b
	return nil
}

func (m *MemoryRedisClient) GetObj(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	b, ok := m.items[key]
	m.mu.Unlock()

	if !ok {
		return xredis.ErrNotFound
	}

	return json.Unmarshal(b, v)
}

func (m *MemoryRedisClient) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[key]
	return ok
}
