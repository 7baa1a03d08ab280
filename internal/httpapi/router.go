package httpapi

import (
	"net/http"
	"time"

	"storefront/internal/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Timeout    time.Duration
	Middleware []func(http.Handler) http.Handler
	// Upstream, when set, is reported under "upstream" by /health.
	Upstream func() any
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	for _, mw := range cfg.Middleware {
		r.Use(mw)
	}
	if cfg.Timeout > 0 {
		r.Use(chimw.Timeout(cfg.Timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if cfg.Upstream != nil {
			body["upstream"] = cfg.Upstream()
		}
		respondJSON(w, http.StatusOK, body)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/selected", h.GetSelected)
		r.Delete("/products/selected", h.CloseSelected)
		r.Get("/products/{id}", h.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.UpdateQuantity)
			r.Delete("/items/{id}", h.RemoveItem)
			r.Post("/items/{id}/increment", h.IncrementItem)
			r.Post("/items/{id}/decrement", h.DecrementItem)
		})

		r.Post("/checkout", h.Checkout)
		r.Get("/checkout/draft", h.GetDraft)
		r.Put("/checkout/draft", h.SaveDraft)
		r.Get("/orders", h.ListOrders)
	})

	return r
}
