package similarity

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// fakeEmbedder maps known strings to fixed unit vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

type fakeProvider struct {
	embedder *fakeEmbedder
	loadErr  error
	steps    []float64
}

func (f *fakeProvider) Load(_ context.Context, onProgress func(float64)) (Embedder, error) {
	for _, s := range f.steps {
		onProgress(s)
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.embedder, nil
}

func nextEvent(t *testing.T, w *Worker) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("event stream closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker event")
		return Event{}
	}
}

func waitForStatus(t *testing.T, w *Worker, status string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				t.Fatalf("event stream closed while waiting for %q", status)
			}
			if ev.Status == status {
				return ev
			}
			if ev.Status == "error" {
				t.Fatalf("error event while waiting for %q: %v", status, ev.Data)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", status)
		}
	}
}

func TestWorkerInitReportsProgressThenReady(t *testing.T) {
	provider := &fakeProvider{embedder: &fakeEmbedder{}, steps: []float64{0.25, 0.75}}
	w := NewWorker(provider)
	defer w.Close()

	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, want := range []float64{0.25, 0.75} {
		ev := nextEvent(t, w)
		if ev.Status != "progress" {
			t.Fatalf("expected progress event, got %s", ev.Status)
		}
		if got, _ := ev.Data.(float64); got != want {
			t.Errorf("progress fraction: got %v want %v", got, want)
		}
	}

	if ev := nextEvent(t, w); ev.Status != "ready" {
		t.Fatalf("expected ready event, got %s", ev.Status)
	}
	if w.State() != StateReady {
		t.Errorf("state after load: got %s", w.State())
	}
}

func TestWorkerAnalyzeIdenticalTextScoresOne(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"静かな夜": {0, 1, 0},
	}}
	w := NewWorker(&fakeProvider{embedder: embedder})
	defer w.Close()

	w.Init(context.Background())
	waitForStatus(t, w, "ready")

	if err := w.Analyze(context.Background(), "静かな夜", "静かな夜"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	ev := waitForStatus(t, w, "complete")
	if ev.Result == nil {
		t.Fatal("complete event missing result")
	}
	if math.Abs(*ev.Result-1.0) > 1e-6 {
		t.Errorf("identical texts: similarity %v, want 1.0", *ev.Result)
	}
}

func TestWorkerAnalyzeOrthogonalTexts(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
	}}
	w := NewWorker(&fakeProvider{embedder: embedder})
	defer w.Close()

	w.Init(context.Background())
	waitForStatus(t, w, "ready")
	w.Analyze(context.Background(), "a", "b")

	ev := waitForStatus(t, w, "complete")
	if *ev.Result != 0 {
		t.Errorf("orthogonal vectors: similarity %v, want 0", *ev.Result)
	}
}

func TestWorkerRejectsAnalyzeBeforeInit(t *testing.T) {
	w := NewWorker(&fakeProvider{embedder: &fakeEmbedder{}})
	defer w.Close()

	if err := w.Analyze(context.Background(), "a", "b"); err != nil {
		t.Fatalf("early analyze must not fail the call: %v", err)
	}

	ev := nextEvent(t, w)
	if ev.Status != "error" {
		t.Fatalf("early analyze should produce an error event, got %s", ev.Status)
	}

	// The worker must survive the rejection: a normal init→analyze
	// sequence still works afterwards.
	w.Init(context.Background())
	waitForStatus(t, w, "ready")
	w.Analyze(context.Background(), "x", "x")
	ev = waitForStatus(t, w, "complete")
	if ev.Result == nil || math.Abs(*ev.Result-1.0) > 1e-6 {
		t.Errorf("post-rejection analyze broken: %+v", ev)
	}
}

func TestWorkerInitIdempotentWhileReady(t *testing.T) {
	w := NewWorker(&fakeProvider{embedder: &fakeEmbedder{}})
	defer w.Close()

	w.Init(context.Background())
	waitForStatus(t, w, "ready")

	if err := w.Init(context.Background()); err != nil {
		t.Fatalf("repeat Init: %v", err)
	}

	// No second ready event: the next observable event should be the
	// analyze completion.
	w.Analyze(context.Background(), "a", "a")
	if ev := nextEvent(t, w); ev.Status != "complete" {
		t.Fatalf("repeat Init must not reload, got %s event", ev.Status)
	}
}

func TestWorkerLoadFailureIsTerminal(t *testing.T) {
	w := NewWorker(&fakeProvider{loadErr: errors.New("model download failed")})
	defer w.Close()

	w.Init(context.Background())
	if ev := nextEvent(t, w); ev.Status != "error" {
		t.Fatalf("expected error event, got %s", ev.Status)
	}
	if w.State() != StateError {
		t.Fatalf("state after failed load: got %s", w.State())
	}

	// Analyze can never succeed on this instance.
	w.Analyze(context.Background(), "a", "b")
	if ev := nextEvent(t, w); ev.Status != "error" {
		t.Fatalf("analyze on failed worker should error, got %s", ev.Status)
	}
}

func TestWorkerEmbedFailureKeepsWorkerAlive(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("inference timeout")}
	w := NewWorker(&fakeProvider{embedder: embedder})
	defer w.Close()

	w.Init(context.Background())
	waitForStatus(t, w, "ready")

	w.Analyze(context.Background(), "a", "b")
	if ev := nextEvent(t, w); ev.Status != "error" {
		t.Fatalf("expected error event, got %s", ev.Status)
	}

	embedder.err = nil
	deadline := time.Now().Add(time.Second)
	for w.State() != StateReady {
		if time.Now().After(deadline) {
			t.Fatal("worker did not return to ready after embed failure")
		}
		time.Sleep(time.Millisecond)
	}
	w.Analyze(context.Background(), "a", "a")
	if ev := waitForStatus(t, w, "complete"); ev.Result == nil {
		t.Fatal("analyze after recovery missing result")
	}
}

func TestWorkerCloseSafeFromAnyState(t *testing.T) {
	fresh := NewWorker(&fakeProvider{embedder: &fakeEmbedder{}})
	fresh.Close()
	fresh.Close() // repeat close is a no-op

	if err := fresh.Init(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Init on closed worker: got %v, want ErrClosed", err)
	}
	if err := fresh.Analyze(context.Background(), "a", "b"); !errors.Is(err, ErrClosed) {
		t.Errorf("Analyze on closed worker: got %v, want ErrClosed", err)
	}

	loaded := NewWorker(&fakeProvider{embedder: &fakeEmbedder{}})
	loaded.Init(context.Background())
	waitForStatus(t, loaded, "ready")
	loaded.Close()
	if _, ok := <-loaded.Events(); ok {
		t.Error("event stream must close with the worker")
	}
}

func TestDot(t *testing.T) {
	if got := Dot([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("Dot identical unit vectors = %v", got)
	}
	if got := Dot([]float32{1, 0}, []float32{-1, 0}); got != -1 {
		t.Errorf("Dot opposite unit vectors = %v", got)
	}
	if got := Dot([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("Dot mismatched lengths = %v", got)
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize(3,4) = %v", v)
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("normalized vector has norm² %v", norm)
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector must pass through, got %v", zero)
	}
}
