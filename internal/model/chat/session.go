package chat

import (
	"time"

	"github.com/hiwalabs/hiwa/backend/internal/analysis/emotion"
)

// Session captures one conversation: the selected (mode, color, weather)
// triple, the vector derived from it, and the ambient color updated from
// side-channel blocks as the conversation progresses.
type Session struct {
	ID              string         `json:"id"`
	ModeID          string         `json:"modeId"`
	ColorHex        string         `json:"colorHex"`
	WeatherID       string         `json:"weatherId"`
	AmbientColorHex string         `json:"ambientColorHex,omitempty"`
	Vector          emotion.Vector `json:"vector"`
	CreatedAt       time.Time      `json:"createdAt"`
}
