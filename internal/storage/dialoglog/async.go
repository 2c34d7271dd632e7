// Package dialoglog records dialog lifecycle events off the conversation path.
package dialoglog

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrQueueFull is returned when an event is dropped because the writer is behind.
	ErrQueueFull = errors.New("dialog log queue is full")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("dialog log is closed")
)

// DefaultQueueSize is used when NewAsync gets a non-positive size.
const DefaultQueueSize = 256

const writeTimeout = 5 * time.Second

// Store persists dialog records. Implementations are called from a single
// writer goroutine.
type Store interface {
	Create(ctx context.Context, id string, startedAt time.Time) error
	SetState(ctx context.Context, id, state string) error
	Finish(ctx context.Context, id, final string, endedAt time.Time) error
}

type eventKind int

const (
	eventCreate eventKind = iota
	eventState
	eventFinish
)

type event struct {
	kind  eventKind
	id    string
	state string
	at    time.Time
}

// Async hands dialog events to a background writer so that callers never
// wait on storage. Events for one dialog are written in submission order.
type Async struct {
	store Store
	queue chan event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts the writer goroutine.
func NewAsync(store Store, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		store: store,
		queue: make(chan event, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Begin mints a correlation id and schedules the dialog record.
func (a *Async) Begin(_ context.Context) (string, error) {
	id := uuid.NewString()
	if err := a.enqueue(event{kind: eventCreate, id: id, at: time.Now().UTC()}); err != nil {
		return "", err
	}
	return id, nil
}

// SetState schedules a state update.
func (a *Async) SetState(_ context.Context, id, state string) error {
	return a.enqueue(event{kind: eventState, id: id, state: state})
}

// End schedules the final state and end time.
func (a *Async) End(_ context.Context, id, final string) error {
	return a.enqueue(event{kind: eventFinish, id: id, state: final, at: time.Now().UTC()})
}

// Close stops accepting events and waits for pending writes or ctx.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) enqueue(e event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		if err := a.write(e); err != nil {
			log.Printf("[dialoglog] write dialog %s failed: %v", e.id, err)
		}
	}
}

func (a *Async) write(e event) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	switch e.kind {
	case eventCreate:
		return a.store.Create(ctx, e.id, e.at)
	case eventState:
		return a.store.SetState(ctx, e.id, e.state)
	case eventFinish:
		return a.store.Finish(ctx, e.id, e.state, e.at)
	default:
		return nil
	}
}
