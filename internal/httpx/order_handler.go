package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/auth"
)

type CreateOrderReq struct {
	DeliveryTime time.Time `json:"deliveryTime"`
	Address      string    `json:"address"`
}

type CreateOrderResp struct {
	Status  string    `json:"status"`
	OrderID uuid.UUID `json:"order_id"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()
	list, err := h.Lifecycle.ListOrders(ctx, auth.UserIDFrom(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()
	order, err := h.Lifecycle.GetOrder(ctx, orderID, auth.UserIDFrom(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid json", apperr.ErrInvalidRequest))
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()
	orderID, err := h.Lifecycle.CreateOrder(ctx, auth.UserIDFrom(ctx), req.Address, req.DeliveryTime)
	record("create_order", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateOrderResp{Status: "Success", OrderID: orderID})
}

func (h *Handler) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()
	err = h.Lifecycle.ConfirmDelivery(ctx, orderID, auth.UserIDFrom(ctx))
	record("confirm_delivery", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, "Order marked as delivered.")
}
