package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Handler *Handler

	// Limiter is optional; nil disables rate limiting (tests).
	Limiter  RateLimiter
	RLLimit  int
	RLWindow time.Duration
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(HTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(SecurityHeaders)
	if d.Limiter != nil && d.RLLimit > 0 {
		r.Use(RateLimit(d.Limiter, d.RLLimit, d.RLWindow))
	}

	h := d.Handler

	r.Route("/admin", func(r chi.Router) {
		r.Get("/events", h.SearchAdminEvents)
		r.Patch("/events/{eventId}", h.UpdateAdminEvent)

		r.Post("/categories", h.CreateCategory)
		r.Patch("/categories/{catId}", h.UpdateCategory)
		r.Delete("/categories/{catId}", h.DeleteCategory)

		r.Post("/users", h.CreateUser)
		r.Get("/users", h.ListUsers)
		r.Delete("/users/{userId}", h.DeleteUser)

		r.Post("/compilations", h.CreateCompilation)
		r.Patch("/compilations/{compId}", h.UpdateCompilation)
		r.Delete("/compilations/{compId}", h.DeleteCompilation)

		r.Delete("/comments/{commentId}", h.DeleteCommentAdmin)
	})

	r.Route("/users/{userId}", func(r chi.Router) {
		r.Get("/events", h.ListUserEvents)
		r.Post("/events", h.CreateEvent)
		r.Get("/events/{eventId}", h.GetUserEvent)
		r.Patch("/events/{eventId}", h.UpdateUserEvent)
		r.Get("/events/{eventId}/requests", h.ListEventRequests)
		r.Patch("/events/{eventId}/requests", h.ModerateRequests)
		r.Post("/events/{eventId}/comments", h.CreateComment)

		r.Get("/requests", h.ListUserRequests)
		r.Post("/requests", h.CreateRequest)
		r.Patch("/requests/{requestId}/cancel", h.CancelRequest)

		r.Patch("/comments/{commentId}", h.UpdateComment)
		r.Delete("/comments/{commentId}", h.DeleteComment)
	})

	r.Get("/events", h.SearchPublicEvents)
	r.Get("/events/{eventId}", h.GetPublicEvent)
	r.Get("/events/{eventId}/comments", h.ListEventComments)
	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{catId}", h.GetCategory)
	r.Get("/compilations", h.ListCompilations)
	r.Get("/compilations/{compId}", h.GetCompilation)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
