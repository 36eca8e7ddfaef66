package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	History   HistoryConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	embedding := loadEmbeddingConfig()

	history, err := loadHistoryConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Embedding: embedding, History: history}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the generation-service model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates a chat model instance from this configuration.
// Max tokens are deliberately absent here: the reply service derives a
// per-call budget from the input length.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		def := 0.75
		temperature = &def
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}
	if topP == nil {
		def := 0.9
		topP = &def
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
	}, nil
}

// EmbeddingConfig describes the similarity worker's embedding provider.
type EmbeddingConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Enabled reports whether the embedding provider can be constructed.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		APIKey:  strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY")),
		Model:   getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		BaseURL: getEnvOrDefault("EMBEDDING_BASE_URL", ""),
	}
}

// HistoryConfig describes the emotion-history store.
type HistoryConfig struct {
	Driver     string // "memory" or "sqlite"
	Path       string
	MaxEntries int
}

func loadHistoryConfig() (HistoryConfig, error) {
	driver := getEnvOrDefault("HISTORY_DRIVER", "memory")
	switch driver {
	case "memory", "sqlite":
	default:
		return HistoryConfig{}, fmt.Errorf("invalid HISTORY_DRIVER value: %q", driver)
	}

	maxEntries := 100
	if override, err := parseOptionalIntEnv("HISTORY_MAX_ENTRIES"); err != nil {
		return HistoryConfig{}, err
	} else if override != nil {
		if *override < 1 {
			maxEntries = 1
		} else {
			maxEntries = *override
		}
	}

	return HistoryConfig{
		Driver:     driver,
		Path:       getEnvOrDefault("HISTORY_SQLITE_PATH", "hiwa-history.db"),
		MaxEntries: maxEntries,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
