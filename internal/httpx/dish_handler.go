package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/auth"
	"github.com/ariefcatur/restaurant-delivery/internal/catalog"
)

// listDishes accepts repeated categories, optional vegetarian, sorting and a
// 1-based page.
func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter catalog.Filter
	for _, raw := range q["categories"] {
		c, err := catalog.ParseCategory(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		filter.Categories = append(filter.Categories, c)
	}
	if raw := q.Get("vegetarian"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: vegetarian must be true or false", apperr.ErrInvalidRequest))
			return
		}
		filter.Vegetarian = &v
	}
	sorting, err := catalog.ParseSorting(q.Get("sorting"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page := 1
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: page must be a number", apperr.ErrInvalidRequest))
			return
		}
	}

	ctx, cancel := h.context(r)
	defer cancel()
	result, err := h.Catalog.List(ctx, filter, sorting, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()
	dish, err := h.Catalog.Get(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) canRateDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctx, cancel := h.context(r)
	defer cancel()
	ok, err := h.Catalog.CanRate(ctx, id, auth.UserIDFrom(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

func (h *Handler) rateDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	score, err := strconv.ParseFloat(r.URL.Query().Get("ratingScore"), 64)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: ratingScore must be a number", apperr.ErrInvalidRequest))
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()
	if err := h.Catalog.Rate(ctx, id, auth.UserIDFrom(ctx), score); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Debug("rating stored", zap.String("dish_id", id.String()))
	writeOK(w, "Rating updated successfully.")
}
