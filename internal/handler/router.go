package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/mylife/backend/internal/handler/catalog"
	"github.com/zhouzirui/mylife/backend/internal/handler/chat"
	middlewarePkg "github.com/zhouzirui/mylife/backend/internal/middleware"
	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
	chatService "github.com/zhouzirui/mylife/backend/internal/service/chat"
	"github.com/zhouzirui/mylife/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(repo questionary.Repository, chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	catalogHandler := catalog.New(repo)
	chatHandler := chat.New(chatSvc)
	wsHandler := chat.NewWebSocketHandler(chatSvc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": chatSvc.Len(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		catalogHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
	})

	return r
}
