package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/sitebooks/sitebooks/internal/audit/domain"
)

type changeProjectStatusRequest struct {
	StatusID string `json:"status_id"`
}

// @Summary      Change Project Status
// @Description  Move a project to a new status and run its flow rules
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Project ID"
// @Param        request body changeProjectStatusRequest true "Change Status Request"
// @Success      200  {object}  projectdomain.StatusChangeResult
// @Router       /projects/{id}/status [post]
func (s *Server) ChangeProjectStatus(c *gin.Context) {
	projectID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_project_id", "invalid project id"))
		return
	}

	var req changeProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	statusID, err := snowflake.ParseString(strings.TrimSpace(req.StatusID))
	if err != nil {
		AbortWithError(c, newValidationError("status_id", "invalid_status_id", "invalid status id"))
		return
	}

	ctx := c.Request.Context()
	actorID := s.actorID(c)

	result, err := s.projectSvc.ChangeStatus(ctx, projectID, statusID, actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := result.ProjectID
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionProjectStatusChange, "project", &targetID, map[string]any{
			"status_id":      result.StatusID,
			"prev_status_id": result.PrevStatusID,
			"rules_applied":  result.RulesApplied,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
