package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
}

// Options configures the session, authentication and admin layers.
type Options struct {
	APIKey        string
	Sessions      sessions.Store
	SessionCookie string
	Tokens        middleware.TokenParser
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	// Health check endpoint (no session or authentication)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(opts.Sessions, opts.SessionCookie, logger))
		r.Use(middleware.Authenticate(opts.Tokens, logger))

		r.Get("/products", h.Products.List)
		r.Get("/products/featured", h.Products.Featured)
		r.Get("/products/{ref}", h.Products.Get)
		r.Get("/categories", h.Products.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productId}", h.Cart.UpdateItem)
			r.Delete("/items/{productId}", h.Cart.RemoveItem)
		})

		r.Post("/checkout", h.Orders.Checkout)
		r.Get("/orders", h.Orders.ListMine)
		r.Get("/orders/{id}", h.Orders.GetMine)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

			r.Get("/orders", h.Orders.List)
			r.Get("/orders/{id}", h.Orders.Get)
			r.Patch("/orders/{id}/status", h.Orders.UpdateStatus)
		})
	})

	return r
}
