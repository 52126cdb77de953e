// handler.go

package revision

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/InnoTechI/skillx-api/internal/core"
	"github.com/InnoTechI/skillx-api/internal/middleware"
)

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
	r.Route("/revisions", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.RequestRevision)
		r.Get("/", h.ListRevisions)
		r.Get("/{revisionID}", h.GetRevision)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/revisions", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListRevisions)
		r.Put("/{revisionID}/status", h.UpdateRevisionStatus)
	})
}

func (h *Handler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	var req RequestRevisionRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	revision, err := h.service.Request(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToRevisionResponse(revision))
}

func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	params := ListRevisionsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 20),
		Status:   r.URL.Query().Get("status"),
		OrderID:  r.URL.Query().Get("orderId"),
		ClientID: r.URL.Query().Get("clientId"),
	}

	revisions, total, err := h.service.List(r.Context(), middleware.GetIdentity(r.Context()), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToRevisionResponseList(revisions), params.Page, params.PageSize, total)
}

func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	revisionID := chi.URLParam(r, "revisionID")

	revision, err := h.service.Get(r.Context(), middleware.GetIdentity(r.Context()), revisionID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRevisionResponse(revision))
}

func (h *Handler) UpdateRevisionStatus(w http.ResponseWriter, r *http.Request) {
	revisionID := chi.URLParam(r, "revisionID")

	var req UpdateStatusRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	revision, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		revisionID,
		Status(req.Status),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToRevisionResponse(revision))
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
