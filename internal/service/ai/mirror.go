package ai

import (
	"strings"
	"unicode/utf8"
)

// warmSuffixes are the mirroring sentence endings used by the fallback
// reply when no model is available.
var warmSuffixes = []string{
	"、のですね",
	"……そう、なんですね",
	"、ということなんですね",
	"……そう感じているのですね",
	"、と",
}

// MirrorReply builds a warm mirrored reply from the user's own words.
// Used when the model is unconfigured or retries exhaust — the caller
// must never show a raw error instead of a reply. Deterministic: the
// suffix is chosen from the input length so the fallback is repeatable.
func MirrorReply(userMessage string) string {
	input := strings.TrimSpace(userMessage)
	if input == "" {
		return "……。"
	}

	cleaned := strings.TrimRight(input, "。！？、…!?. \t\n")
	if cleaned == "" {
		cleaned = input
	}
	suffix := warmSuffixes[utf8.RuneCountInString(input)%len(warmSuffixes)]

	if utf8.RuneCountInString(cleaned) <= 8 {
		return "……" + cleaned + suffix + "。"
	}

	// Long inputs: mirror the last clause, closest to the core.
	core := cleaned
	if idx := strings.LastIndexAny(cleaned, "。、"); idx >= 0 {
		tail := strings.TrimSpace(cleaned[idx+len("、"):])
		if tail != "" {
			core = tail
		}
	}

	return "……" + core + suffix + "。"
}
