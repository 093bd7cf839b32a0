package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/logging"
	"studenthub-server-go/internal/platform/storage"
	httptransport "studenthub-server-go/internal/transport/http"
)

// AuditHandlers exposes the audit trail to administrators.
type AuditHandlers struct {
	audits *storage.AuditRepository
	logger *logging.Logger
}

func NewAuditHandlers(audits *storage.AuditRepository, logger *logging.Logger) *AuditHandlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuditHandlers{audits: audits, logger: logger}
}

func (h *AuditHandlers) Register(secured *gin.RouterGroup) {
	admin := secured.Group("")
	admin.Use(httptransport.RequireRole(models.RoleAdmin))
	admin.GET("/audit", h.handleList)
}

func (h *AuditHandlers) handleList(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), defaultPage)
	limit := parsePositiveInt(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	logs, total, err := h.audits.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.ErrorTag("AUDIT", "list failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to list audit logs", nil)
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	}, "")
}
