package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/archivault/pkg/internal/storage/kv"
)

// newMemoryKV 创建用于测试的内存 KV 实例.
func newMemoryKV(t *testing.T) kv.KVStore {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMemoryKV failed: %v", err)
	}

	return store
}

// TestMemoryKVBasic 测试内存 KV 的基本读写删除.
func TestMemoryKVBasic(t *testing.T) {
	ctx := context.Background()
	store := newMemoryKV(t)

	if err := store.Set(ctx, "loc:1", []byte("CoE"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "loc:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(got) != "CoE" {
		t.Errorf("Get returned %q, want %q", got, "CoE")
	}

	exists, err := store.Exists(ctx, "loc:1")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}

	if err := store.Delete(ctx, "loc:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "loc:1"); err == nil {
		t.Error("Get after Delete should fail")
	}
}

// TestMemoryKVTTL 测试过期键视同不存在.
func TestMemoryKVTTL(t *testing.T) {
	ctx := context.Background()
	store := newMemoryKV(t)

	if err := store.Set(ctx, "loc:2", []byte("BSIT"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(ctx, "loc:2"); err == nil {
		t.Error("Get after TTL expiry should fail")
	}

	exists, err := store.Exists(ctx, "loc:2")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	if exists {
		t.Error("Exists after TTL expiry should be false")
	}
}

// TestMemoryKVGetReturnsCopy 测试 Get 返回副本，修改不影响存储内容.
func TestMemoryKVGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newMemoryKV(t)

	if err := store.Set(ctx, "loc:3", []byte("201"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	first, _ := store.Get(ctx, "loc:3")
	first[0] = 'X'

	second, err := store.Get(ctx, "loc:3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if string(second) != "201" {
		t.Errorf("stored value mutated: got %q, want %q", second, "201")
	}
}

// BenchmarkMemoryKVSet 基准测试内存 KV 写入.
func BenchmarkMemoryKVSet(b *testing.B) {
	ctx := context.Background()

	store, err := kv.NewMemoryKV(ctx, nil)
	if err != nil {
		b.Fatalf("NewMemoryKV failed: %v", err)
	}

	value := []byte("CoE → BSIT → 201")

	b.ResetTimer()

	for b.Loop() {
		if err := store.Set(ctx, "loc:bench", value, 0); err != nil {
			b.Fatalf("Set failed: %v", err)
		}
	}
}
