package handler

import (
	"errors"
	"net/http"

	"lead_console_backend/internal/console/service"
	"lead_console_backend/internal/console/transport"
	"lead_console_backend/platform/httpkit"
	"lead_console_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidOpportunityID = "invalid opportunity id"
	msgInvalidRequest       = "invalid request"
	msgValidationFailed     = "validation failed"
)

// Handler handles HTTP requests for the lead console.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the lead console routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/:id/follow-up-task", h.CreateFollowUpTask)
}

// RegisterAdminRoutes registers the operational routes for administrators.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/cache", h.FlushCache)
}

func (h *Handler) List(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	views, err := h.svc.ListLeadViews(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leadViews": views})
}

func (h *Handler) CreateFollowUpTask(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	oppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOpportunityID, nil)
		return
	}

	// The body is optional; when present it must validate.
	var req transport.CreateFollowUpTaskRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	task, err := h.svc.CreateFollowUpTask(c.Request.Context(), tenantID, oppID, req)
	if errors.Is(err, service.ErrOpportunityNotFound) {
		httpkit.Error(c, http.StatusNotFound, "opportunity not found", nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, task)
}

// FlushCache drops the cached lead console for the caller's organization so
// the next listing reflects storage directly.
func (h *Handler) FlushCache(c *gin.Context) {
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	h.svc.FlushLeadViewCache(c.Request.Context(), tenantID)
	c.Status(http.StatusNoContent)
}

func mustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	tenantID, ok := httpkit.GetTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "tenant ID is required", nil)
		return uuid.UUID{}, false
	}
	return tenantID, true
}
