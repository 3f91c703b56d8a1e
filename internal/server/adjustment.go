package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	adjustmentdomain "github.com/sitebooks/sitebooks/internal/adjustment/domain"
)

type previewAdjustmentsRequest struct {
	Components       []adjustmentdomain.Component                                        `json:"components"`
	DimensionChanges map[adjustmentdomain.DimensionType]adjustmentdomain.DimensionChange `json:"dimension_changes"`
}

// @Summary      Preview Adjustments
// @Description  Apply configured material adjustment rules to components
// @Tags         adjustments
// @Accept       json
// @Produce      json
// @Param        request body previewAdjustmentsRequest true "Components and dimension changes"
// @Success      200  {object}  []adjustmentdomain.Component
// @Router       /adjustments/preview [post]
func (s *Server) PreviewAdjustments(c *gin.Context) {
	var req previewAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Components) == 0 {
		AbortWithError(c, newValidationError("components", "required", "components are required"))
		return
	}

	adjusted := s.adjustmentSvc.ApplyToComponents(c.Request.Context(), req.Components, req.DimensionChanges)
	c.JSON(http.StatusOK, gin.H{"data": adjusted})
}
