// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Client facing messages.
const (
	MsgFillAllFields    = "Please fill all fields"
	MsgInvalidBody      = "Invalid request body"
	MsgInvalidID        = "Invalid product ID"
	MsgNotFound         = "Product not found"
	MsgServerError      = "Server error"
	MsgDeleted          = "Product deleted successfully"
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
)

type Handler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewHandler creates a new Handler over the product service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product routes and the health check.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)
}

// List returns every product.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondData(w, h.logger, http.StatusOK, list)
}

// Get returns one product.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondData(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductCreateDto
	if err := web.DecodeJSON(w, r, &dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondData(w, h.logger, http.StatusCreated, created)
}

// Update merges the request body into an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var dto service.ProductUpdateDto
	if err := web.DecodeJSON(w, r, &dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "ID", id, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondData(w, h.logger, http.StatusOK, updated)
}

// Delete removes a product.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondMessage(w, h.logger, http.StatusOK, MsgDeleted)
}

// HealthCheck reports that the process is serving.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	web.RespondError(w, h.logger, http.StatusNotFound, MsgRouteNotFound)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	web.RespondError(w, h.logger, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// respondServiceError maps the service error taxonomy onto status codes.
// Internal details are logged, never returned. request_id reaches the log through the context handler.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *perrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", vErr.Fields)
		web.RespondFieldErrors(w, h.logger, MsgFillAllFields, vErr.Fields)
	case errors.Is(err, perrors.ErrInvalidIdentifier):
		h.logger.WarnContext(r.Context(), "Invalid product ID", "ID", r.PathValue("id"))
		web.RespondError(w, h.logger, http.StatusBadRequest, MsgInvalidID)
	case errors.Is(err, perrors.ErrProductNotFound):
		h.logger.WarnContext(r.Context(), "Product not found", "ID", r.PathValue("id"))
		web.RespondError(w, h.logger, http.StatusNotFound, MsgNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "Error processing product request", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, MsgServerError)
	}
}
