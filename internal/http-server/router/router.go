package router

import (
	"net/http"

	"storefront-media/internal/http-server/handler/media"
	"storefront-media/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	MediaHandler *media.MediaHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/media", func(r chi.Router) {
			r.Get("/inspect", h.MediaHandler.Inspect)
			r.Delete("/", h.MediaHandler.Delete)

			r.Route("/{type}", func(r chi.Router) {
				r.Post("/", h.MediaHandler.Upload)
				r.Post("/batch", h.MediaHandler.UploadBatch)
				r.Put("/", h.MediaHandler.Replace)
				r.Get("/", h.MediaHandler.List)
			})
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
