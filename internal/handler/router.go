package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/ethicallogix/hasi/internal/handler/chat"
	videoHandler "github.com/ethicallogix/hasi/internal/handler/video"
	middlewarePkg "github.com/ethicallogix/hasi/internal/middleware"
	chatService "github.com/ethicallogix/hasi/internal/service/chat"
	videoService "github.com/ethicallogix/hasi/internal/service/video"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(orchestrator *chatService.Orchestrator, searcher *videoService.Searcher, maxVideoResults int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatH := chatHandler.New(orchestrator)
	videoH := videoHandler.New(searcher, maxVideoResults)

	r.Route("/api", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		videoH.RegisterRoutes(api)
	})

	return r
}
