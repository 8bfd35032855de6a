// AngelaMos | 2026
// handler.go

package versions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/middleware"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
)

type Handler struct {
	service   *Service
	gate      *gate.Gate
	validator *validator.Validate
}

func NewHandler(service *Service, g *gate.Gate) *Handler {
	return &Handler{
		service:   service,
		gate:      g,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/resumes/{resumeID}/sections/{section}", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.GetSection)
		r.Put("/", h.EditSection)
		r.Get("/history", h.GetHistory)
		r.Post("/propose", h.Propose)
		r.Post("/accept", h.Accept)
		r.Post("/undo", h.Undo)
	})
}

func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	section, proposal, err := h.service.Get(r.Context(), userID, resumeID, name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := struct {
		SectionResponse
		Proposal *ProposalResponse `json:"proposal,omitempty"`
	}{SectionResponse: ToSectionResponse(section)}

	if proposal != nil {
		resp.Proposal = &ProposalResponse{
			ProposalID: proposal.ID,
			Candidates: proposal.Candidates,
		}
	}

	core.OK(w, resp)
}

func (h *Handler) EditSection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	var req EditSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	section, err := h.service.Edit(r.Context(), userID, resumeID, name, req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToSectionResponse(section))
}

// GetHistory lists the section's versions. Version history is a
// boolean-gated capability, not a metered one.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	if err := h.gate.Check(tier, policy.CapabilityVersionHistory); err != nil {
		h.writeError(w, err)
		return
	}

	section, err := h.service.History(ctx, userID, resumeID, name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToHistoryResponse(section))
}

func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	var req ProposeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	proposal, err := h.service.Propose(
		ctx,
		userID,
		tier,
		resumeID,
		name,
		req.ProviderID,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ProposalResponse{
		ProposalID: proposal.ID,
		Candidates: proposal.Candidates,
	})
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	var req AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	section, err := h.service.Accept(
		r.Context(),
		userID,
		resumeID,
		name,
		req.CandidateText,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := ToSectionResponse(section)
	if req.KeepOriginal && section.PreviousText != nil {
		resp.OriginalText = section.PreviousText
	}

	core.OK(w, resp)
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")
	name := chi.URLParam(r, "section")

	section, undone, err := h.service.Undo(r.Context(), userID, resumeID, name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := UndoResponse{
		SectionResponse: ToSectionResponse(section),
		Undone:          undone,
	}
	if undone {
		resp.Result = "undone"
	} else {
		resp.Result = "nothing_to_undo"
	}

	core.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if d, ok := gate.AsDenial(err); ok {
		gate.WriteDenial(w, d)
		return
	}

	if provider.WriteError(w, err) {
		return
	}

	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "section")
		return
	}

	core.InternalServerError(w, err)
}
