package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/sitebooks/sitebooks/internal/audit/domain"
	flowruledomain "github.com/sitebooks/sitebooks/internal/flowrule/domain"
)

// @Summary      List Flow Rules
// @Description  List status flow rules
// @Tags         flow_rules
// @Produce      json
// @Param        is_active    query  bool    false  "Active flag"
// @Param        status_id    query  string  false  "Status ID"
// @Param        category_id  query  string  false  "Category ID"
// @Success      200  {object}  []flowruledomain.Response
// @Router       /flow-rules [get]
func (s *Server) ListFlowRules(c *gin.Context) {
	var query flowruledomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.flowRuleSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Flow Rule
// @Description  Create a status flow rule
// @Tags         flow_rules
// @Accept       json
// @Produce      json
// @Param        request body flowruledomain.CreateRequest true "Create Flow Rule Request"
// @Success      200  {object}  flowruledomain.Response
// @Router       /flow-rules [post]
func (s *Server) CreateFlowRule(c *gin.Context) {
	var req flowruledomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	actorID := s.actorID(c)

	resp, err := s.flowRuleSvc.Create(ctx, req, actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionFlowRuleCreate, "status_flow_rule", &resp.ID, map[string]any{
			"status_id":   resp.StatusID,
			"category_id": resp.CategoryID,
			"action":      resp.Action,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Flow Rule
// @Description  Get a status flow rule by ID
// @Tags         flow_rules
// @Produce      json
// @Param        id   path      string  true  "Flow Rule ID"
// @Success      200  {object}  flowruledomain.Response
// @Router       /flow-rules/{id} [get]
func (s *Server) GetFlowRule(c *gin.Context) {
	resp, err := s.flowRuleSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Flow Rule
// @Description  Update a status flow rule
// @Tags         flow_rules
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Flow Rule ID"
// @Param        request body flowruledomain.UpdateRequest true "Update Flow Rule Request"
// @Success      200  {object}  flowruledomain.Response
// @Router       /flow-rules/{id} [patch]
func (s *Server) UpdateFlowRule(c *gin.Context) {
	var req flowruledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	ctx := c.Request.Context()
	resp, err := s.flowRuleSvc.Update(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		actorID := s.actorID(c)
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionFlowRuleUpdate, "status_flow_rule", &resp.ID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Flow Rule
// @Description  Delete a status flow rule
// @Tags         flow_rules
// @Produce      json
// @Param        id   path  string  true  "Flow Rule ID"
// @Success      200  {object}  map[string]any
// @Router       /flow-rules/{id} [delete]
func (s *Server) DeleteFlowRule(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	ctx := c.Request.Context()
	if err := s.flowRuleSvc.Delete(ctx, id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		actorID := s.actorID(c)
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionFlowRuleDelete, "status_flow_rule", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
