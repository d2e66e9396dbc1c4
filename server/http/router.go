package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	catHnd "fit-service/internal/catalog/handler"
	catSvc "fit-service/internal/catalog/service"
	"fit-service/internal/config"
	"fit-service/internal/middleware"
	"fit-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, svc *catSvc.Catalog, db handlers.Pinger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> rate -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health(db))

	r.Route("/api", func(r chi.Router) {
		r.Get("/garments", catHnd.ListGarments(svc, logger))
		r.Post("/garments", catHnd.AddGarment(svc, logger))
		r.Post("/garments/upload", catHnd.Upload(svc, logger))
		r.Get("/garments/{id}", catHnd.GetGarment(svc, logger))

		r.Get("/stats/averages", catHnd.Averages(svc, logger))

		r.Get("/search/fields", catHnd.Fields(svc))
		r.Post("/search", catHnd.Search(svc, logger))
	})

	return r
}
