package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/auth"
)

func (h *Handler) getBasket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()
	lines, err := h.Ledger.List(ctx, auth.UserIDFrom(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handler) addToBasket(w http.ResponseWriter, r *http.Request) {
	dishID, err := uuidParam(r, "dishId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()
	_, err = h.Ledger.Add(ctx, auth.UserIDFrom(ctx), dishID)
	record("basket_add", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, "Dish added to basket.")
}

// removeFromBasket addresses the line by its own id; increase=true takes
// one portion off instead of dropping the whole line.
func (h *Handler) removeFromBasket(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuidParam(r, "lineId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	increase := false
	if raw := r.URL.Query().Get("increase"); raw != "" {
		if increase, err = strconv.ParseBool(raw); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: increase must be true or false", apperr.ErrInvalidRequest))
			return
		}
	}

	ctx, cancel := h.context(r)
	defer cancel()
	err = h.Ledger.DecreaseOrRemove(ctx, auth.UserIDFrom(ctx), lineID, increase)
	record("basket_remove", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, "Basket updated.")
}
