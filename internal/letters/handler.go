// AngelaMos | 2026
// handler.go

package letters

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/middleware"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
)

type DraftRequest struct {
	ProviderID string `json:"provider_id" validate:"omitempty,max=64"`
	JobTitle   string `json:"job_title"   validate:"required,min=1,max=255"`
	Company    string `json:"company"     validate:"required,min=1,max=255"`
	Highlights string `json:"highlights"  validate:"required,min=1,max=5000"`
}

type DraftResponse struct {
	Candidates []provider.Candidate `json:"candidates"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.With(authenticator).Post("/cover-letters", h.Draft)
}

func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))

	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	candidates, err := h.service.Draft(
		ctx,
		userID,
		tier,
		req.ProviderID,
		req.JobTitle,
		req.Company,
		req.Highlights,
	)
	if err != nil {
		if d, ok := gate.AsDenial(err); ok {
			gate.WriteDenial(w, d)
			return
		}
		if provider.WriteError(w, err) {
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DraftResponse{Candidates: candidates})
}
