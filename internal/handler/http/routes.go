package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		// mutating endpoints sit behind the pre-shared access token
		r.Group(func(r chi.Router) {
			r.Use(h.withAccessToken)

			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout/{sessionKey}", h.logout)
			r.Post("/license", h.createLicense)
			r.Post("/data/{sessionKey}", h.saveData)
		})

		r.Get("/data/{sessionKey}", h.loadData)
	})

	return router
}
