package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	historyservice "github.com/hiwalabs/hiwa/backend/internal/service/history"
	"github.com/hiwalabs/hiwa/backend/pkg/utils"
)

// Handler exposes the emotion-history log and its constellation
// projection.
type Handler struct {
	store historyservice.Store
}

// New creates the history handler.
func New(store historyservice.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handleList)
	r.Delete("/history", h.handleClear)
	r.Get("/history/constellation", h.handleConstellation)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleConstellation(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, historyservice.Project(entries))
}
