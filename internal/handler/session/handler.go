package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hiwalabs/hiwa/backend/internal/model/chat"
	"github.com/hiwalabs/hiwa/backend/internal/service/ai"
	chatservice "github.com/hiwalabs/hiwa/backend/internal/service/chat"
	historyservice "github.com/hiwalabs/hiwa/backend/internal/service/history"
	"github.com/hiwalabs/hiwa/backend/pkg/utils"
)

// Handler owns the conversation lifecycle: session creation, the
// generation round trip for each user turn, and the flatten-to-history
// step on close.
type Handler struct {
	chatSvc *chatservice.Service
	aiSvc   *ai.Service
	history historyservice.Store
}

// New creates the session handler.
func New(chatSvc *chatservice.Service, aiSvc *ai.Service, history historyservice.Store) *Handler {
	return &Handler{chatSvc: chatSvc, aiSvc: aiSvc, history: history}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Get("/session/{sessionID}/messages", h.handleListMessages)
	r.Post("/session/{sessionID}/messages", h.handleTurn)
	r.Get("/session/{sessionID}/stream", h.handleTurnStream)
	r.Delete("/session/{sessionID}", h.handleCloseSession)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ModeID    string `json:"modeId"`
		ColorHex  string `json:"colorHex"`
		WeatherID string `json:"weatherId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.ModeID, payload.ColorHex, payload.WeatherID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.chatSvc.LoadTranscript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

// handleTurn runs one user turn synchronously: generate, post-process,
// persist both sides of the exchange, and fold the side-channel color
// into the session's ambient state.
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, status, err := h.runTurn(r, sessionID, payload.Content)
	if err != nil {
		utils.RespondError(w, status, err.Error())
		return
	}

	session, _ := h.chatSvc.GetSession(r.Context(), sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":           reply,
		"ambientColorHex": session.AmbientColorHex,
		"hibiki":          session.Vector.Hibiki,
	})
}

// handleTurnStream is the SSE variant of a turn for clients that want
// an explicit start event while generation is in flight. The reply
// arrives as one event: the side-channel contract requires the full
// text before post-processing, so there is no token-level streaming.
func (h *Handler) handleTurnStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")
	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	reply, _, err := h.runTurn(r, sessionID, userMessage)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	session, _ := h.chatSvc.GetSession(r.Context(), sessionID)
	utils.SendSSEEvent(w, flusher, "reply", map[string]any{
		"reply":           reply,
		"ambientColorHex": session.AmbientColorHex,
		"hibiki":          session.Vector.Hibiki,
	})
}

func (h *Handler) runTurn(r *http.Request, sessionID, content string) (ai.Reply, int, error) {
	ctx := r.Context()

	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		return ai.Reply{}, http.StatusNotFound, errors.New("session not found")
	}

	if err := h.chatSvc.BeginTurn(ctx, sessionID); err != nil {
		if errors.Is(err, chatservice.ErrTurnInFlight) {
			return ai.Reply{}, http.StatusConflict, err
		}
		return ai.Reply{}, http.StatusNotFound, err
	}
	defer h.chatSvc.EndTurn(ctx, sessionID)

	transcript, err := h.chatSvc.LoadTranscript(ctx, sessionID)
	if err != nil {
		return ai.Reply{}, http.StatusNotFound, err
	}

	reply := h.aiSvc.Generate(ctx, session.Vector, transcript, content)

	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    "user",
		Content:   content,
	}); err != nil {
		return ai.Reply{}, http.StatusInternalServerError, err
	}
	if err := h.chatSvc.SaveMessage(ctx, chat.Message{
		SessionID: sessionID,
		Sender:    "ai",
		Content:   reply.VisibleText,
		Tone:      reply.Tone,
	}); err != nil {
		return ai.Reply{}, http.StatusInternalServerError, err
	}

	if err := h.chatSvc.UpdateAmbientColor(ctx, sessionID, reply.ColorHex); err != nil {
		log.Printf("[session] ambient color update failed: %v", err)
	}

	return reply, http.StatusOK, nil
}

// handleCloseSession flattens the session into a history entry. A
// persistence failure is logged and swallowed: closing the conversation
// must never fail on the user.
func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	entry, err := h.chatSvc.CloseSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	if h.history != nil {
		if err := h.history.Append(r.Context(), entry); err != nil {
			log.Printf("[session] history append failed for session=%s: %v", sessionID, err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, entry)
}
