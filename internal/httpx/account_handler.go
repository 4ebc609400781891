package httpx

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/auth"
)

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()
	if err := h.Gate.Revoke(ctx, auth.TokenFrom(ctx)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("user logged out", zap.String("user_id", auth.UserIDFrom(ctx).String()))
	writeOK(w, "Logged out successfully.")
}
