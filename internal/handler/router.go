package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dagimaynadis/portfolio/backend/internal/handler/chat"
	"github.com/dagimaynadis/portfolio/backend/pkg/utils"
)

// ChatService is what the router needs from the orchestrator.
type ChatService interface {
	chat.Replier
	Configured() bool
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc ChatService, opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(opts.AllowedOrigins))

	chatHandler := chat.New(chatSvc, logger)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"status":   "healthy",
				"service":  "chat",
				"provider": chatSvc.Configured(),
			})
		})
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Client-Session"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
