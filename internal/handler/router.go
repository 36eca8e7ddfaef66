package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hiwalabs/hiwa/backend/internal/handler/catalog"
	historyHandler "github.com/hiwalabs/hiwa/backend/internal/handler/history"
	sessionHandler "github.com/hiwalabs/hiwa/backend/internal/handler/session"
	similarityHandler "github.com/hiwalabs/hiwa/backend/internal/handler/similarity"
	middlewarePkg "github.com/hiwalabs/hiwa/backend/internal/middleware"
	aiService "github.com/hiwalabs/hiwa/backend/internal/service/ai"
	chatService "github.com/hiwalabs/hiwa/backend/internal/service/chat"
	historyService "github.com/hiwalabs/hiwa/backend/internal/service/history"
	similarityService "github.com/hiwalabs/hiwa/backend/internal/service/similarity"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, aiSvc *aiService.Service, store historyService.Store, embeddings similarityService.Provider) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		catalog.New().RegisterRoutes(api)
		sessionHandler.New(chatSvc, aiSvc, store).RegisterRoutes(api)
		historyHandler.New(store).RegisterRoutes(api)
		similarityHandler.New(embeddings).RegisterRoutes(api)
	})

	return r
}
