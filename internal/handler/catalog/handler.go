package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hiwalabs/hiwa/backend/internal/analysis/color"
	"github.com/hiwalabs/hiwa/backend/internal/analysis/emotion"
	"github.com/hiwalabs/hiwa/backend/pkg/utils"
)

// Handler serves the static catalogs and the stateless analysis
// endpoints: emotion-vector derivation and color anchor lookup.
type Handler struct{}

// New creates the catalog handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/modes", h.handleListModes)
	r.Get("/weathers", h.handleListWeathers)
	r.Get("/stages", h.handleListStages)
	r.Post("/vector", h.handleComputeVector)
	r.Post("/analysis/color", h.handleAnalyzeColor)
}

func (h *Handler) handleListModes(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, emotion.Modes())
}

func (h *Handler) handleListWeathers(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, emotion.Weathers())
}

func (h *Handler) handleListStages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, emotion.Stages())
}

// handleComputeVector derives the emotion vector for a selection
// without opening a session. Unknown ids fall back to catalog defaults
// instead of failing.
func (h *Handler) handleComputeVector(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ModeID    string `json:"modeId"`
		ColorHex  string `json:"colorHex"`
		WeatherID string `json:"weatherId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ColorHex == "" {
		utils.RespondError(w, http.StatusBadRequest, "colorHex is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, emotion.Compute(payload.ModeID, payload.ColorHex, payload.WeatherID))
}

// handleAnalyzeColor classifies a color and resolves its nearest
// emotion anchor. The anchor's keyword string is what the similarity
// worker later embeds against user text.
func (h *Handler) handleAnalyzeColor(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ColorHex string `json:"colorHex"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	red, green, blue, ok := color.ParseHex(payload.ColorHex)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "colorHex must be a 6-digit hex color")
		return
	}

	hsl := color.RGBToHSL(red, green, blue)
	anchor := color.Nearest(red, green, blue, color.Anchors())

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"hsl":         hsl,
		"temperature": color.ClassifyTemperature(hsl),
		"emotionHint": color.DescribeEmotionHint(hsl),
		"toneName":    color.DescribeToneName(hsl),
		"anchor":      anchor,
	})
}
