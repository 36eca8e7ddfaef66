package history

import "time"

// Entry is the vector-only record persisted for one completed session.
// Raw transcripts are not stored beyond the first exchange snapshot.
type Entry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	ModeID           string    `json:"modeId"`
	ColorHex         string    `json:"colorHex"`
	AmbientColorHex  string    `json:"ambientColorHex,omitempty"`
	WeatherID        string    `json:"weatherId"`
	SilenceCoeff     float64   `json:"silenceCoeff"`
	VitalityCoeff    float64   `json:"vitalityCoeff"`
	DepthCoeff       float64   `json:"depthCoeff"`
	AdviceBan        bool      `json:"adviceBan"`
	MessageCount     int       `json:"messageCount"`
	FirstUserMessage string    `json:"firstUserMessage"`
	FirstAIResponse  string    `json:"firstAiResponse"`
}

// ConstellationPoint is one plotted history entry: x is vitality,
// y is depth, both already in [0,1].
type ConstellationPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Entry Entry   `json:"entry"`
}
