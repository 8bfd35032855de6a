// AngelaMos | 2026
// handler.go

package usage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/middleware"
	"github.com/carterperez-dev/resumeforge/internal/policy"
)

// Handler serves the metering status read: current tier, every metered
// counter, and the capability map. Strictly non-mutating.
type Handler struct {
	gate *gate.Gate
}

func NewHandler(g *gate.Gate) *Handler {
	return &Handler{gate: g}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Get("/usage", h.GetUsage)
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))

	snapshot, err := h.gate.Snapshot(ctx, userID, tier)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, snapshot)
}
