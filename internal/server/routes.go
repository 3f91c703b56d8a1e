package server

import "github.com/gin-gonic/gin"

// RegisterAPIRoutes mounts the API surface on the engine.
func (s *Server) RegisterAPIRoutes(engine *gin.Engine) {
	api := engine.Group("/api")

	expenses := api.Group("/expenses")
	expenses.GET("/:parentId/restore-history", s.RestoreHistory)
	expenses.GET("/:parentId/latest-snapshot", s.LatestSnapshot)
	expenses.POST("/:parentId/restore", s.RestoreParent)
	expenses.POST("/:parentId/snapshots", s.CreateManualSnapshot)

	api.POST("/adjustments/preview", s.PreviewAdjustments)

	rules := api.Group("/flow-rules")
	rules.GET("", s.ListFlowRules)
	rules.POST("", s.CreateFlowRule)
	rules.GET("/:id", s.GetFlowRule)
	rules.PATCH("/:id", s.UpdateFlowRule)
	rules.DELETE("/:id", s.DeleteFlowRule)

	api.POST("/projects/:id/status", s.ChangeProjectStatus)

	api.GET("/audit-logs", s.ListAuditLogs)
}
