package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glowup/beacon/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if drained := q.Drain(ctx); len(drained) != 0 {
		t.Errorf("expected empty drain, got %d items", len(drained))
	}

	// Test append
	q.Append(ctx, model.Interaction{ID: "a", Type: model.TypeClick})
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test drain
	drained := q.Drain(ctx)
	if len(drained) != 1 || drained[0].ID != "a" {
		t.Errorf("expected [a], got %v", drained)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0 after drain, got %d", l)
	}
}

func TestInMemoryQueue_DrainOrder(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	q.Append(ctx, model.Interaction{ID: "a"})
	q.Append(ctx, model.Interaction{ID: "b"})
	q.Append(ctx, model.Interaction{ID: "c"})

	drained := q.Drain(ctx)
	if len(drained) != 3 {
		t.Fatalf("expected 3 items, got %d", len(drained))
	}
	for i, want := range []string{"a", "b", "c"} {
		if drained[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, drained[i].ID)
		}
	}
}

func TestInMemoryQueue_DrainIsolation(t *testing.T) {
	q := NewInMemoryQueue(WithInitialCapacity(4))
	ctx := context.Background()

	q.Append(ctx, model.Interaction{ID: "a"})
	drained := q.Drain(ctx)

	// Appends after a drain must not alias the drained slice.
	q.Append(ctx, model.Interaction{ID: "b"})
	if len(drained) != 1 || drained[0].ID != "a" {
		t.Errorf("drained slice mutated by later append: %v", drained)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAppend(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()
	const numGoroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				q.Append(ctx, model.Interaction{ID: fmt.Sprintf("%d-%d", id, j)})
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != numGoroutines*perGoroutine {
		t.Errorf("expected %d items, got %d", numGoroutines*perGoroutine, l)
	}
	if drained := q.Drain(ctx); len(drained) != numGoroutines*perGoroutine {
		t.Errorf("expected %d drained, got %d", numGoroutines*perGoroutine, len(drained))
	}
}
