package similarity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// State is the worker lifecycle phase.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateBusy
	StateError // load failed; terminal for this instance
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateBusy:
		return "busy"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is one worker→caller message.
type Event struct {
	Status string   `json:"status"` // "progress", "ready", "complete", "error"
	Data   any      `json:"data,omitempty"`
	Result *float64 `json:"result,omitempty"`
}

func progressEvent(fraction float64) Event { return Event{Status: "progress", Data: fraction} }
func readyEvent() Event                    { return Event{Status: "ready"} }
func completeEvent(result float64) Event   { return Event{Status: "complete", Result: &result} }
func errorEvent(msg string) Event          { return Event{Status: "error", Data: msg} }

// ErrClosed is returned for any call on a terminated worker. A closed
// worker cannot be reused; construct a new one.
var ErrClosed = errors.New("similarity worker closed")

const eventBuffer = 32

// Worker runs embedding similarity off the caller's goroutine. The
// model loads lazily on the first Init and is cached for the worker's
// lifetime. At most one analyze runs at a time; an analyze issued
// outside READY is rejected with an error event rather than queued, and
// never brings the worker down.
type Worker struct {
	provider Provider

	mu       sync.Mutex
	state    State
	embedder Embedder
	events   chan Event
}

// NewWorker creates a worker in the uninitialized state.
func NewWorker(provider Provider) *Worker {
	return &Worker{
		provider: provider,
		state:    StateUninitialized,
		events:   make(chan Event, eventBuffer),
	}
}

// Events is the worker→caller message stream. Closed when the worker
// terminates.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// State reports the current lifecycle phase.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Init starts the lazy model load. Idempotent while loading or after a
// successful load; a failed load is terminal and repeat Init calls
// report the failure again.
func (w *Worker) Init(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case StateClosed:
		w.mu.Unlock()
		return ErrClosed
	case StateLoading, StateReady, StateBusy:
		w.mu.Unlock()
		return nil
	case StateError:
		w.mu.Unlock()
		w.emit(errorEvent("embedding model failed to load; worker is unusable"))
		return nil
	}
	w.state = StateLoading
	w.mu.Unlock()

	go w.load(ctx)
	return nil
}

func (w *Worker) load(ctx context.Context) {
	embedder, err := w.provider.Load(ctx, func(fraction float64) {
		w.emit(progressEvent(fraction))
	})

	w.mu.Lock()
	if w.state == StateClosed {
		w.mu.Unlock()
		return
	}
	if err != nil {
		w.state = StateError
		w.mu.Unlock()
		log.Printf("[similarity] model load failed: %v", err)
		w.emit(errorEvent(fmt.Sprintf("model load failed: %v", err)))
		return
	}
	w.embedder = embedder
	w.state = StateReady
	w.mu.Unlock()

	w.emit(readyEvent())
}

// Analyze embeds both texts and reports their cosine similarity as a
// complete event. Valid only from READY; any other state produces an
// error event and leaves the worker as it was.
func (w *Worker) Analyze(ctx context.Context, text1, text2 string) error {
	w.mu.Lock()
	if w.state == StateClosed {
		w.mu.Unlock()
		return ErrClosed
	}
	if w.state != StateReady {
		state := w.state
		w.mu.Unlock()
		w.emit(errorEvent(fmt.Sprintf("analyze rejected: worker is %s, not ready", state)))
		return nil
	}
	w.state = StateBusy
	embedder := w.embedder
	w.mu.Unlock()

	go w.analyze(ctx, embedder, text1, text2)
	return nil
}

func (w *Worker) analyze(ctx context.Context, embedder Embedder, text1, text2 string) {
	defer func() {
		w.mu.Lock()
		if w.state == StateBusy {
			w.state = StateReady
		}
		w.mu.Unlock()
	}()

	v1, err := embedder.Embed(ctx, text1)
	if err != nil {
		w.emit(errorEvent(fmt.Sprintf("embedding failed: %v", err)))
		return
	}
	v2, err := embedder.Embed(ctx, text2)
	if err != nil {
		w.emit(errorEvent(fmt.Sprintf("embedding failed: %v", err)))
		return
	}

	w.emit(completeEvent(Dot(v1, v2)))
}

// Close terminates the worker and closes the event stream. Safe to call
// from any state, including repeatedly.
func (w *Worker) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return
	}
	w.state = StateClosed
	close(w.events)
}

// emit delivers an event without blocking the worker: if the caller has
// stopped draining, the event is dropped with a log line.
func (w *Worker) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return
	}
	select {
	case w.events <- ev:
	default:
		log.Printf("[similarity] event buffer full, dropping %s event", ev.Status)
	}
}
