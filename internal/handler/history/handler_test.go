package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hiwalabs/hiwa/backend/internal/model/history"
	historyservice "github.com/hiwalabs/hiwa/backend/internal/service/history"
)

func setupRouter(store historyservice.Store) *chi.Mux {
	r := chi.NewRouter()
	New(store).RegisterRoutes(r)
	return r
}

func seedStore(t *testing.T) historyservice.Store {
	t.Helper()
	store := historyservice.NewMemoryStore(100)
	entries := []history.Entry{
		{ID: "s1", Timestamp: time.Now().UTC(), ModeID: "RAIMEI", ColorHex: "#DC143C", WeatherID: "sunny", VitalityCoeff: 1.0, DepthCoeff: 0.25, MessageCount: 4},
		{ID: "s2", Timestamp: time.Now().UTC(), ModeID: "TOMOSHIBI", ColorHex: "#191970", AmbientColorHex: "#2d3748", WeatherID: "night", VitalityCoeff: 0.3, DepthCoeff: 1.0, MessageCount: 2},
	}
	for _, e := range entries {
		if err := store.Append(context.Background(), e); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return store
}

func TestListHistory(t *testing.T) {
	r := setupRouter(seedStore(t))

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var entries []history.Entry
	if err := json.Unmarshal(resp.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID != "s2" {
		t.Errorf("newest first violated: %s", entries[0].ID)
	}
}

func TestClearHistory(t *testing.T) {
	store := seedStore(t)
	r := setupRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/history", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	entries, _ := store.List(context.Background())
	if len(entries) != 0 {
		t.Fatalf("clear left %d entries", len(entries))
	}
}

func TestConstellation(t *testing.T) {
	r := setupRouter(seedStore(t))

	req := httptest.NewRequest(http.MethodGet, "/history/constellation", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var points []history.ConstellationPoint
	if err := json.Unmarshal(resp.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points", len(points))
	}
	// s2 is newest: ambient color wins, coordinates follow the vector.
	if points[0].X != 0.3 || points[0].Y != 1.0 || points[0].Color != "#2d3748" {
		t.Errorf("unexpected projection: %+v", points[0])
	}
}
