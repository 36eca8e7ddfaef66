package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hiwalabs/hiwa/backend/internal/analysis/emotion"
	"github.com/hiwalabs/hiwa/backend/internal/model/chat"
	"github.com/hiwalabs/hiwa/backend/internal/model/history"
)

var (
	ErrModeRequired    = errors.New("mode id is required")
	ErrColorRequired   = errors.New("color is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrTurnInFlight    = errors.New("a turn is already in flight for this session")
)

// Service holds the live conversations. Each session owns a derived
// emotion vector, a transcript, and a mutable ambient color fed back
// from the reply side-channel. Turns are serialized per session: a new
// turn is rejected while the previous one is unresolved.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

type sessionState struct {
	session  chat.Session
	messages []chat.Message
	inFlight bool
}

// NewService bootstraps the in-memory session service.
func NewService() *Service {
	return &Service{sessions: make(map[string]*sessionState)}
}

// CreateSession derives the emotion vector from the selection and
// provisions a session around it. Unknown mode or weather ids fall back
// to the catalog defaults inside the vector computation rather than
// failing the call.
func (s *Service) CreateSession(_ context.Context, modeID, colorHex, weatherID string) (chat.Session, error) {
	if modeID == "" {
		return chat.Session{}, ErrModeRequired
	}
	if colorHex == "" {
		return chat.Session{}, ErrColorRequired
	}

	vector := emotion.Compute(modeID, colorHex, weatherID)
	session := chat.Session{
		ID:        uuid.NewString(),
		ModeID:    vector.Mode.ID,
		ColorHex:  vector.ColorHex,
		WeatherID: vector.Weather.ID,
		Vector:    vector,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = &sessionState{
		session:  session,
		messages: make([]chat.Message, 0, 16),
	}
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return state.session, nil
}

// BeginTurn marks the session busy for one generation round trip.
// Rejected while an earlier turn is unresolved, so a conversation never
// has concurrent in-flight requests.
func (s *Service) BeginTurn(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if state.inFlight {
		return ErrTurnInFlight
	}
	state.inFlight = true
	return nil
}

// EndTurn releases the session after the turn resolved, successfully or
// not.
func (s *Service) EndTurn(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.sessions[sessionID]; ok {
		state.inFlight = false
	}
}

// SaveMessage appends a message to the session transcript.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) error {
	if message.SessionID == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[message.SessionID]
	if !ok {
		return ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	state.messages = append(state.messages, message)
	return nil
}

// UpdateAmbientColor records the side-channel color for the session.
// Empty values (side-channel absent or invalid) leave the current
// ambient color untouched.
func (s *Service) UpdateAmbientColor(_ context.Context, sessionID, colorHex string) error {
	if colorHex == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	state.session.AmbientColorHex = colorHex
	return nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(state.messages))
	copy(copied, state.messages)
	return copied, nil
}

// CloseSession removes the session and flattens it into the vector-only
// history record. The transcript is discarded; only the first exchange
// survives as a snapshot.
func (s *Service) CloseSession(_ context.Context, sessionID string) (history.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return history.Entry{}, ErrSessionNotFound
	}
	delete(s.sessions, sessionID)

	vector := state.session.Vector
	entry := history.Entry{
		ID:              state.session.ID,
		Timestamp:       time.Now().UTC(),
		ModeID:          state.session.ModeID,
		ColorHex:        state.session.ColorHex,
		AmbientColorHex: state.session.AmbientColorHex,
		WeatherID:       state.session.WeatherID,
		SilenceCoeff:    vector.SilenceCoeff,
		VitalityCoeff:   vector.VitalityCoeff,
		DepthCoeff:      vector.DepthCoeff,
		AdviceBan:       vector.AdviceBan,
		MessageCount:    len(state.messages),
	}

	for _, msg := range state.messages {
		if entry.FirstUserMessage == "" && msg.Sender == "user" {
			entry.FirstUserMessage = msg.Content
		}
		if entry.FirstAIResponse == "" && msg.Sender == "ai" {
			entry.FirstAIResponse = msg.Content
		}
		if entry.FirstUserMessage != "" && entry.FirstAIResponse != "" {
			break
		}
	}

	return entry, nil
}
