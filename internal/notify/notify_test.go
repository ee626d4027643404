package notify

import (
	"context"
	"sync"
	"testing"
)

func TestMemorySignalTicksAreMonotonic(t *testing.T) {
	signal := NewMemorySignal()
	ctx := context.Background()

	ticks, err := signal.Ticks(ctx, "orders:customer:a")
	if err != nil {
		t.Fatalf("ticks failed: %v", err)
	}
	if ticks["orders:customer:a"] != 0 {
		t.Fatalf("fresh key must read 0, got %d", ticks["orders:customer:a"])
	}

	for i := 0; i < 3; i++ {
		if err := signal.Invalidate(ctx, "orders:customer:a", "orders:shipper"); err != nil {
			t.Fatalf("invalidate failed: %v", err)
		}
	}

	ticks, _ = signal.Ticks(ctx, "orders:customer:a", "orders:shipper", "orders:vendor:b")
	if ticks["orders:customer:a"] != 3 || ticks["orders:shipper"] != 3 {
		t.Fatalf("expected 3 ticks on invalidated keys, got %+v", ticks)
	}
	if ticks["orders:vendor:b"] != 0 {
		t.Fatalf("untouched key must stay 0, got %d", ticks["orders:vendor:b"])
	}
}

func TestMemorySignalConcurrentInvalidates(t *testing.T) {
	signal := NewMemorySignal()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = signal.Invalidate(ctx, "orders:shipper")
		}()
	}
	wg.Wait()

	ticks, _ := signal.Ticks(ctx, "orders:shipper")
	if ticks["orders:shipper"] != 100 {
		t.Fatalf("expected 100 ticks, got %d", ticks["orders:shipper"])
	}
}
