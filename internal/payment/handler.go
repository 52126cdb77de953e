// handler.go

package payment

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

// RegisterRoutes mounts the read-only client view of the ledger.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListPayments)
		r.Get("/{paymentID}", h.GetPayment)
	})
}

// RegisterAdminRoutes mounts the ledger-keeping endpoints.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/payments", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/", h.RecordPayment)
		r.Get("/", h.ListPayments)
		r.Put("/{paymentID}/status", h.UpdatePaymentStatus)
	})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.Record(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToPaymentResponse(payment))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	params := ListPaymentsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "pageSize", 20),
		Status:   r.URL.Query().Get("status"),
		Method:   r.URL.Query().Get("method"),
		OrderID:  r.URL.Query().Get("orderId"),
		ClientID: r.URL.Query().Get("clientId"),
	}

	payments, total, err := h.service.List(r.Context(), middleware.GetIdentity(r.Context()), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToPaymentResponseList(payments), params.Page, params.PageSize, total)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	payment, err := h.service.Get(r.Context(), middleware.GetIdentity(r.Context()), paymentID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPaymentResponse(payment))
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentID")

	var req UpdateStatusRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	payment, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		paymentID,
		Status(req.Status),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToPaymentResponse(payment))
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
