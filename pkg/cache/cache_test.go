package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v1"), nil
	}

	for i := 0; i < 3; i++ {
		data, err := c.GetOrFetch(ctx, "k", time.Minute, fetch)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "v1" {
			t.Fatalf("data = %q, want v1", data)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch calls = %d, want 1", n)
	}
}

func TestGetOrFetchExpires(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v"), nil
	}

	if _, err := c.GetOrFetch(ctx, "k", 10*time.Millisecond, fetch); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.GetOrFetch(ctx, "k", 10*time.Millisecond, fetch); err != nil {
		t.Fatal(err)
	}

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetch calls = %d, want 2 after expiry", n)
	}
}

func TestGetOrFetchCoalescesConcurrentCalls(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return []byte("shared"), nil
	}

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			data, err := c.GetOrFetch(ctx, "hot", time.Minute, fetch)
			if err != nil {
				t.Error(err)
				return
			}
			if string(data) != "shared" {
				t.Errorf("data = %q, want shared", data)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch calls = %d, want 1 (singleflight)", n)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v"), nil
	}

	if _, err := c.GetOrFetch(ctx, "k", time.Hour, fetch); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(ctx, "k")
	if _, err := c.GetOrFetch(ctx, "k", time.Hour, fetch); err != nil {
		t.Fatal(err)
	}

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetch calls = %d, want 2 after invalidation", n)
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	c := New(nil)
	ctx := context.Background()
	boom := errors.New("boom")

	var calls int32
	failing := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	if _, err := c.GetOrFetch(ctx, "k", time.Minute, failing); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	// 错误不缓存，下一次调用重新执行 fetch
	data, err := c.GetOrFetch(ctx, "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ok" {
		t.Errorf("data = %q, want ok", data)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("failing fetch calls = %d, want 1", n)
	}
}
