package ai

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/hiwalabs/hiwa/backend/internal/analysis/emotion"
	"github.com/hiwalabs/hiwa/backend/internal/config"
	"github.com/hiwalabs/hiwa/backend/internal/model/chat"
)

const (
	historyLimit = 10
	maxAttempts  = 3
)

// Service generates mirrored replies through the configured chat model.
// When no model is configured, or all retries exhaust, it degrades to
// the deterministic mirror fallback instead of surfacing an error: a
// session turn always produces a reply.
type Service struct {
	cfg   config.AIConfig
	chain compose.Runnable[map[string]any, *schema.Message]

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// NewService creates the reply service. A missing or incomplete model
// configuration is not an error: the service is constructed without a
// chain and serves fallback replies.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	s := &Service{cfg: cfg, sleep: time.Sleep}

	if !cfg.Enabled() {
		log.Printf("[ai] chat model not configured, using mirror fallback")
		return s, nil
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	s.chain = runnable
	return s, nil
}

// Enabled reports whether a real chat model backs this service.
func (s *Service) Enabled() bool {
	return s.chain != nil
}

// Generate produces the post-processed reply for one session turn. The
// raw model output is split into visible text and side-channel fields,
// and the visible text is clamped to the length band for the input.
// Never returns an error to the caller: transport failures fall back to
// the mirror reply with empty side-channel fields.
func (s *Service) Generate(ctx context.Context, v emotion.Vector, history []chat.Message, userMessage string) Reply {
	inputRunes := utf8.RuneCountInString(userMessage)

	raw, err := s.invoke(ctx, v, history, userMessage, inputRunes)
	if err != nil {
		log.Printf("[ai] generation failed, serving mirror fallback: %v", err)
		return Reply{VisibleText: MirrorReply(userMessage)}
	}

	reply := ParseReply(raw)
	reply.VisibleText = EnforceLength(reply.VisibleText, inputRunes)
	if reply.VisibleText == "" {
		reply.VisibleText = MirrorReply(userMessage)
	}
	if reply.Tone != "" && !ValidTone(reply.Tone) {
		log.Printf("[ai] dropping unknown tone %q", reply.Tone)
		reply.Tone = ""
	}
	return reply
}

func (s *Service) invoke(ctx context.Context, v emotion.Vector, history []chat.Message, userMessage string, inputRunes int) (string, error) {
	if s.chain == nil {
		return "", fmt.Errorf("chat model not configured")
	}

	input := map[string]any{
		"system":  BuildSystemPrompt(v),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
	budget := compose.WithChatModelOption(model.WithMaxTokens(tokenBudget(inputRunes)))

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(backoff(attempt))
		}

		response, err := s.chain.Invoke(ctx, input, budget)
		if err == nil {
			log.Printf("[ai] generated reply mode=%s length=%d", v.Mode.ID, len(response.Content))
			return response.Content, nil
		}

		lastErr = err
		if !retryable(err) {
			return "", err
		}
		log.Printf("[ai] transient model error (attempt %d/%d): %v", attempt+1, maxAttempts, err)
	}

	return "", fmt.Errorf("retries exhausted: %w", lastErr)
}

// tokenBudget caps model output relative to the input length. The bands
// sit well above the visible-length ceilings so the side-channel JSON is
// never cut off mid-block.
func tokenBudget(inputRunes int) int {
	switch {
	case inputRunes <= 10:
		return 96
	case inputRunes <= 100:
		return 160
	default:
		return 256
	}
}

// backoff returns the wait before retry n: exponential seconds plus up
// to 500ms of jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * time.Second
	jitter := time.Duration(rand.Intn(500)) * time.Millisecond
	return base + jitter
}

// retryable classifies transient upstream failures worth another
// attempt: rate limiting and temporary overload.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "too many requests", "503", "overloaded", "service unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case "user":
			history = append(history, schema.UserMessage(msg.Content))
		case "ai":
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
