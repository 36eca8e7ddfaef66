package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hiwalabs/hiwa/backend/internal/config"
	"github.com/hiwalabs/hiwa/backend/internal/handler"
	"github.com/hiwalabs/hiwa/backend/internal/service/ai"
	"github.com/hiwalabs/hiwa/backend/internal/service/chat"
	historyservice "github.com/hiwalabs/hiwa/backend/internal/service/history"
	"github.com/hiwalabs/hiwa/backend/internal/service/similarity"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatService := chat.NewService()

	// The reply service degrades to the mirror fallback when the chat
	// model is unconfigured; only a real construction failure is fatal.
	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize reply service: %v", err)
	}
	if aiService.Enabled() {
		log.Println("reply service initialized with chat model")
	} else {
		log.Println("chat model not configured, replies use the mirror fallback")
	}

	store, closeStore, err := newHistoryStore(cfg.History)
	if err != nil {
		log.Fatalf("failed to initialize history store: %v", err)
	}
	defer closeStore()

	var embeddings similarity.Provider
	if cfg.Embedding.Enabled() {
		provider, err := similarity.NewOpenAIProvider(cfg.Embedding)
		if err != nil {
			log.Printf("warning: failed to initialize embedding provider: %v", err)
		} else {
			embeddings = provider
			log.Println("similarity service initialized")
		}
	} else {
		log.Println("embedding API not configured, similarity endpoint disabled")
	}

	router := handler.NewRouter(chatService, aiService, store, embeddings)

	startServer(ctx, cfg.Server, router)
}

func newHistoryStore(cfg config.HistoryConfig) (historyservice.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := historyservice.NewSQLiteStore(cfg.Path, cfg.MaxEntries)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("history store: sqlite at %s (max %d entries)", cfg.Path, cfg.MaxEntries)
		return store, func() { store.Close() }, nil
	default:
		log.Printf("history store: in-memory (max %d entries)", cfg.MaxEntries)
		return historyservice.NewMemoryStore(cfg.MaxEntries), func() {}, nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Hiwa backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
