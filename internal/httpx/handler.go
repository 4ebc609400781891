package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/auth"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
	"github.com/ariefcatur/restaurant-delivery/internal/orders"
)

// Handler serves the public API: menu, basket, orders and logout.
type Handler struct {
	Catalog   *catalog.Service
	Ledger    *orders.Ledger
	Lifecycle *orders.Lifecycle
	Gate      *auth.Gate
	Logger    *zap.Logger
	Timeout   time.Duration
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/dish", h.listDishes)
		r.Get("/dish/{id}", h.getDish)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/dish/{id}/rating/check", h.canRateDish)
			r.Post("/dish/{id}/rating", h.rateDish)

			r.Get("/basket", h.getBasket)
			r.Post("/basket/dish/{dishId}", h.addToBasket)
			r.Delete("/basket/dish/{lineId}", h.removeFromBasket)

			r.Get("/order", h.listOrders)
			r.Get("/order/{id}", h.getOrder)
			r.Post("/order", h.createOrder)
			r.Post("/order/{id}/status", h.confirmDelivery)

			r.Post("/account/logout", h.logout)
		})
	})
}

func (h *Handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q is not a valid id", apperr.ErrInvalidRequest, name, raw)
	}
	return id, nil
}
