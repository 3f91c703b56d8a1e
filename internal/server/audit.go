package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/sitebooks/sitebooks/internal/audit/domain"
)

// @Summary      List Audit Logs
// @Description  List recent audit entries, newest first
// @Tags         audit
// @Produce      json
// @Param        action       query  string  false  "Action filter"
// @Param        target_type  query  string  false  "Target type filter"
// @Param        target_id    query  string  false  "Target ID filter"
// @Param        limit        query  int     false  "Page size"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	filter := auditdomain.ListFilter{
		Action:     strings.TrimSpace(c.Query("action")),
		TargetType: strings.TrimSpace(c.Query("target_type")),
		TargetID:   strings.TrimSpace(c.Query("target_id")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	entries, err := s.auditSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
