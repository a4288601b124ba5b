package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router *chi.Mux
}

func NewServer(handler *Handler) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/login", handler.Login)

	r.Route("/p2p", func(r chi.Router) {
		r.Post("/orders", handler.CreateOrder)
		r.Get("/orders/{orderId}", handler.GetOrder)
		r.Post("/orders/{orderId}/confirm-payment", handler.ConfirmPayment)
		r.Get("/config", handler.PaymentConfig)
	})

	r.Route("/prices", func(r chi.Router) {
		r.Get("/", handler.GetPrices)
		r.Get("/ws", handler.StreamPrices)
		r.Get("/{symbol}", handler.GetPrice)
	})

	r.Route("/tokens", func(r chi.Router) {
		r.Get("/", handler.ListTokens)
		r.Get("/popular", handler.PopularTokens)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(handler.Auth))
		r.Get("/orders", handler.AdminListOrders)
		r.Post("/orders/{orderId}/confirm", handler.AdminConfirmOrder)
		r.Post("/orders/{orderId}/cancel", handler.AdminCancelOrder)
		r.Put("/config", handler.AdminUpdateConfig)
	})

	return &Server{Router: r}
}
