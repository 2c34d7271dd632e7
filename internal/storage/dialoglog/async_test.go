package dialoglog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	order   []string
	states  map[string]string
	ended   map[string]bool
	block   chan struct{}
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: map[string]string{}, ended: map[string]bool{}}
}

func (m *memoryStore) Create(_ context.Context, id string, _ time.Time) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("disk full")
	}
	m.order = append(m.order, "create:"+id)
	m.states[id] = "started"
	return nil
}

func (m *memoryStore) SetState(_ context.Context, id, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, "state:"+state)
	m.states[id] = state
	return nil
}

func (m *memoryStore) Finish(_ context.Context, id, final string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = append(m.order, "finish:"+final)
	m.states[id] = final
	m.ended[id] = true
	return nil
}

func TestAsyncWritesInOrder(t *testing.T) {
	store := newMemoryStore()
	a := NewAsync(store, 8)
	ctx := context.Background()

	id, err := a.Begin(ctx)
	if err != nil || id == "" {
		t.Fatalf("Begin: id=%q err=%v", id, err)
	}
	if err := a.SetState(ctx, id, "section_A"); err != nil {
		t.Fatalf("SetState err: %v", err)
	}
	if err := a.End(ctx, id, "completed"); err != nil {
		t.Fatalf("End err: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}

	want := []string{"create:" + id, "state:section_A", "finish:completed"}
	if len(store.order) != len(want) {
		t.Fatalf("unexpected writes %v", store.order)
	}
	for i := range want {
		if store.order[i] != want[i] {
			t.Fatalf("write %d: got %s want %s", i, store.order[i], want[i])
		}
	}
	if !store.ended[id] {
		t.Fatal("dialog not finished")
	}
}

func TestAsyncDropsWhenQueueFull(t *testing.T) {
	store := newMemoryStore()
	store.block = make(chan struct{})
	a := NewAsync(store, 1)
	ctx := context.Background()

	// first event is picked up by the writer and blocks inside Create
	if _, err := a.Begin(ctx); err != nil {
		t.Fatalf("Begin err: %v", err)
	}

	var dropped bool
	deadline := time.After(2 * time.Second)
	for !dropped {
		select {
		case <-deadline:
			t.Fatal("expected queue to fill up")
		default:
		}
		if err := a.SetState(ctx, "x", "s"); errors.Is(err, ErrQueueFull) {
			dropped = true
		}
	}

	close(store.block)
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}
}

func TestAsyncRejectsAfterClose(t *testing.T) {
	a := NewAsync(newMemoryStore(), 0)
	ctx := context.Background()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}
	if _, err := a.Begin(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("second Close err: %v", err)
	}
}

func TestAsyncSwallowsStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.failing = true
	a := NewAsync(store, 4)
	ctx := context.Background()

	if _, err := a.Begin(ctx); err != nil {
		t.Fatalf("Begin should not surface store errors: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close err: %v", err)
	}
}
