package handler

import (
	"net/http"

	"consumables/internal/service"
	"consumables/pkg/pagination"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	requireAdmin gin.HandlerFunc
}

func NewAuditHandler(auditService service.AuditService, requireAdmin gin.HandlerFunc) *AuditHandler {
	return &AuditHandler{auditService: auditService, requireAdmin: requireAdmin}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.requireAdmin)
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the administrative change history, newest first
// @Summary      Get audit logs
// @Description  Catalog imports, item additions, reference list edits and request edits or deletions
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.Page{items=[]service.AuditLogResponse}}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, total, p.Page, p.Limit))
}
