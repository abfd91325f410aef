package kv

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yeisme/archivault/pkg/configs"
)

// memoryEntry 带过期时间的值.
type memoryEntry struct {
	data     []byte
	expireAt time.Time // 零值表示不过期
}

// MemoryKV 基于 sync.Map 的内存 KV 实现，单进程部署时的默认缓存.
type MemoryKV struct {
	data sync.Map
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	return &MemoryKV{}, nil
}

// Get 获取键的值，过期视同不存在.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	entry, ok := value.(memoryEntry)
	if !ok {
		return nil, fmt.Errorf("invalid value type for key: %s", key)
	}

	if !entry.expireAt.IsZero() && time.Now().After(entry.expireAt) {
		m.data.Delete(key)

		return nil, fmt.Errorf("key not found: %s", key)
	}

	// 返回副本
	result := make([]byte, len(entry.data))
	copy(result, entry.data)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expireAt = time.Now().Add(ttl)
	}

	m.data.Store(key, entry)

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		return false, nil
	}

	return true, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
