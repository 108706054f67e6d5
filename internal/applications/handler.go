package applications

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiiromate/JATA-V1/internal/shared/metrics"
	"github.com/kiiromate/JATA-V1/internal/shared/server/respond"
	"github.com/kiiromate/JATA-V1/internal/shared/telemetry"
)

const (
	msgNotFound    = "Application not found"
	msgInternal    = "Internal server error"
	msgInvalidBody = "invalid request body"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/applications", h.create)
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.PUT("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if !bindJSON(c, &in) {
		metrics.IncOperation("create", metrics.OutcomeInvalid)
		return
	}

	app, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.Set("applicationId", app.ID)
	metrics.IncOperation("create", metrics.OutcomeOK)
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) list(c *gin.Context) {
	apps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	metrics.IncOperation("list", metrics.OutcomeOK)
	respond.OK(c, apps)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("applicationId", id)

	app, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	metrics.IncOperation("get", metrics.OutcomeOK)
	respond.OK(c, app)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("applicationId", id)

	var in UpdateInput
	if !bindJSON(c, &in) {
		metrics.IncOperation("update", metrics.OutcomeInvalid)
		return
	}

	app, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	metrics.IncOperation("update", metrics.OutcomeOK)
	respond.OK(c, app)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set("applicationId", id)

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", err)
		return
	}
	metrics.IncOperation("delete", metrics.OutcomeOK)
	respond.NoContent(c)
}

// bindJSON decodes the request body. An empty body decodes as {} so that
// required-field violations are reported instead of a parse error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	switch {
	case errors.As(err, &validationErr):
		metrics.IncOperation(op, metrics.OutcomeInvalid)
		respond.Validation(c, validationErr.Violations)
	case errors.As(err, &notFoundErr):
		metrics.IncOperation(op, metrics.OutcomeNotFound)
		respond.Error(c, http.StatusNotFound, msgNotFound)
	default:
		metrics.IncOperation(op, metrics.OutcomeError)
		telemetry.Error("applications.storage_error", map[string]any{
			"op":         op,
			"error":      err.Error(),
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, msgInternal)
	}
}
