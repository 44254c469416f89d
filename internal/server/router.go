package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/matchai/internal/api"
	"github.com/talentbridge/matchai/internal/api/handlers"
	"github.com/talentbridge/matchai/internal/api/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	MatchHandler *handlers.MatchHandler
	Logger       *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/match", func(r chi.Router) {
		r.Post("/score", cfg.MatchHandler.Score)
		r.Post("/batch", cfg.MatchHandler.ScoreBatch)
		r.Post("/precompute", cfg.MatchHandler.Precompute)
		r.Get("/gap", cfg.MatchHandler.Gap)
		r.Get("/candidate/{id}/scores", cfg.MatchHandler.ListScores)
		r.Delete("/candidate/{id}", cfg.MatchHandler.InvalidateCandidate)
		r.Delete("/job/{id}", cfg.MatchHandler.InvalidateJob)
	})

	return r
}
