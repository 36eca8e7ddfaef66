package ai

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

// Reply is a post-processed generation result: the human-visible text
// plus the optional side-channel fields. Empty ColorHex/Tone mean the
// side-channel was absent or invalid.
type Reply struct {
	VisibleText string `json:"text"`
	ColorHex    string `json:"colorHex,omitempty"`
	Tone        string `json:"tone,omitempty"`
}

var (
	sideChannelPattern = regexp.MustCompile(`\|\|\|\s*(\{[^{}]*\})\s*\|\|\|`)
	colorHexPattern    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

type sideChannelPayload struct {
	Color string `json:"color"`
	Tone  string `json:"tone"`
}

// ParseReply separates the visible text from the trailing side-channel
// block. The last |||{...}||| occurrence wins. Malformed JSON or an
// invalid color never surface as errors: the stripped (or raw) text is
// returned with the side-channel fields empty.
func ParseReply(raw string) Reply {
	matches := sideChannelPattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return Reply{VisibleText: raw}
	}

	m := matches[len(matches)-1]
	visible := strings.TrimSpace(raw[:m[0]] + raw[m[1]:])
	captured := raw[m[2]:m[3]]

	reply := Reply{VisibleText: visible}

	var payload sideChannelPayload
	if err := json.Unmarshal([]byte(captured), &payload); err != nil {
		log.Printf("[ai] silent analysis parse failed: %v", err)
		return reply
	}

	if colorHexPattern.MatchString(payload.Color) {
		reply.ColorHex = payload.Color
	}
	if payload.Tone != "" {
		reply.Tone = payload.Tone
	}
	return reply
}

// lengthCeiling maps the user-input length (in runes) to the maximum
// visible reply length. Monotonic; a longer input licenses a longer
// reply, with generous slack above the prompt's instructed bands.
func lengthCeiling(inputRunes int) int {
	switch {
	case inputRunes <= 10:
		return 24
	case inputRunes <= 50:
		return 60
	case inputRunes <= 100:
		return 80
	default:
		return 96
	}
}

var terminalRunes = map[rune]bool{
	'。': true, '！': true, '？': true, '…': true,
	'.': true, '!': true, '?': true,
}

// EnforceLength truncates a visible reply that overruns the ceiling
// derived from the input length. Truncation prefers the nearest
// sentence-ending punctuation at or below the ceiling; failing that it
// hard-cuts and appends an ellipsis.
func EnforceLength(visible string, inputRunes int) string {
	ceiling := lengthCeiling(inputRunes)
	runes := []rune(visible)
	if len(runes) <= ceiling {
		return visible
	}

	for i := ceiling - 1; i >= 0; i-- {
		if terminalRunes[runes[i]] {
			return string(runes[:i+1])
		}
	}

	cut := runes[:ceiling]
	if terminalRunes[cut[len(cut)-1]] {
		return string(cut)
	}
	return string(cut) + "…"
}
