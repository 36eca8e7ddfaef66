package chat

import "time"

// Message persists individual turns for the session's lifetime only;
// history records keep just the first exchange snapshot.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Tone      string    `json:"tone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
