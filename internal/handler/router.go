package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/obot-ai/obotai-webhook-example/internal/handler/webchat"
	"github.com/obot-ai/obotai-webhook-example/internal/handler/webhook"
	middlewarePkg "github.com/obot-ai/obotai-webhook-example/internal/middleware"
	"github.com/obot-ai/obotai-webhook-example/internal/service/conversation"
	"github.com/obot-ai/obotai-webhook-example/pkg/utils"
)

// NewRouter wires HTTP routes to the conversation engine.
func NewRouter(engine *conversation.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	webhookHandler := webhook.New(engine)
	webchatHandler := webchat.New(engine)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handleHealth)

		webhookHandler.RegisterRoutes(api)
		webchatHandler.RegisterRoutes(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
