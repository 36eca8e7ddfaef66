package similarity

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hiwalabs/hiwa/backend/internal/config"
)

// OpenAIProvider serves embeddings through an OpenAI-compatible API.
// There is no real model download, so Load reduces to a warm-up
// request; progress is reported as a coarse two-step fraction so
// callers see the same event shape as a heavyweight local provider.
type OpenAIProvider struct {
	cfg config.EmbeddingConfig
}

// NewOpenAIProvider creates a provider from the embedding configuration.
// Returns an error when the required API key is missing.
func NewOpenAIProvider(cfg config.EmbeddingConfig) (*OpenAIProvider, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("embedding provider not configured: EMBEDDING_API_KEY missing")
	}
	return &OpenAIProvider{cfg: cfg}, nil
}

// Load builds the API client and verifies it with a warm-up embedding.
func (p *OpenAIProvider) Load(ctx context.Context, onProgress func(float64)) (Embedder, error) {
	onProgress(0.1)

	opts := []option.RequestOption{option.WithAPIKey(p.cfg.APIKey)}
	if p.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	embedder := &openaiEmbedder{client: &client, model: p.cfg.Model}

	onProgress(0.5)
	if _, err := embedder.Embed(ctx, "warm-up"); err != nil {
		return nil, fmt.Errorf("embedding warm-up failed: %w", err)
	}
	onProgress(1.0)

	return embedder, nil
}

type openaiEmbedder struct {
	client *openai.Client
	model  string
}

// Embed requests one embedding and normalizes it to unit length. The
// API already mean-pools tokens server-side; only the L2 normalization
// happens here, so downstream cosine similarity is a plain dot product.
func (e *openaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, x := range raw {
		vec[i] = float32(x)
	}
	return Normalize(vec), nil
}
