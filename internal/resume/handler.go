// AngelaMos | 2026
// handler.go

package resume

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/middleware"
	"github.com/carterperez-dev/resumeforge/internal/policy"
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
	r.Route("/resumes", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Post("/import", h.Import)
		r.Get("/{resumeID}", h.Get)
		r.Delete("/{resumeID}", h.Delete)
		r.Post("/{resumeID}/download", h.Download)
		r.Get("/{resumeID}/ats", h.ATS)
	})

	r.With(authenticator).
		Get("/templates/{templateID}/availability", h.TemplateAvailability)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))

	var req CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resume, usage, err := h.service.Create(ctx, userID, tier, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, CreateResumeResponse{
		ResumeResponse:     ToResumeResponse(resume),
		CreationsRemaining: usage.Remaining,
		Unlimited:          usage.Unlimited,
	})
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))

	var req ImportResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resume, usage, err := h.service.Import(ctx, userID, tier, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, CreateResumeResponse{
		ResumeResponse:     ToResumeResponse(resume),
		CreationsRemaining: usage.Remaining,
		Unlimited:          usage.Unlimited,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")

	resume, err := h.service.Get(r.Context(), userID, resumeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToResumeResponse(resume))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}

	resumes, total, err := h.service.List(r.Context(), userID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToResumeResponseList(resumes),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	resumeID := chi.URLParam(r, "resumeID")

	if err := h.service.Delete(r.Context(), userID, resumeID); err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))
	resumeID := chi.URLParam(r, "resumeID")

	grant, err := h.service.Download(ctx, userID, tier, resumeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, grant)
}

func (h *Handler) ATS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	tier := policy.ParseTier(middleware.GetUserTier(ctx))
	resumeID := chi.URLParam(r, "resumeID")

	report, err := h.service.ATSReport(ctx, userID, tier, resumeID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, report)
}

func (h *Handler) TemplateAvailability(w http.ResponseWriter, r *http.Request) {
	tier := policy.ParseTier(middleware.GetUserTier(r.Context()))
	templateID := chi.URLParam(r, "templateID")

	available := h.gate.CheckTemplate(tier, templateID) == nil

	core.OK(w, map[string]any{
		"template_id": templateID,
		"available":   available,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if d, ok := gate.AsDenial(err); ok {
		gate.WriteDenial(w, d)
		return
	}

	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "resume")
		return
	}

	core.InternalServerError(w, err)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
