package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/sitebooks/sitebooks/internal/audit/domain"
	expensedomain "github.com/sitebooks/sitebooks/internal/expense/domain"
)

// parseSnapshotTarget resolves the parent id path segment and the
// table_name query into typed values, rejecting unknown table names.
func parseSnapshotTarget(c *gin.Context) (snowflake.ID, expensedomain.TableKind, error) {
	parentID, err := snowflake.ParseString(strings.TrimSpace(c.Param("parentId")))
	if err != nil {
		return 0, "", newValidationError("parentId", "invalid_parent_id", "invalid parent expense id")
	}
	kind, err := expensedomain.ParseTableKind(c.Query("table_name"))
	if err != nil {
		return 0, "", newValidationError("table_name", "invalid_table_name", "table_name must be one of expenses, project_expenses, project_expenses_quote")
	}
	return parentID, kind, nil
}

// @Summary      Restore History
// @Description  List restore history for a parent expense
// @Tags         snapshots
// @Produce      json
// @Param        parentId    path   string  true  "Parent Expense ID"
// @Param        table_name  query  string  true  "Expense table"
// @Success      200  {object}  []snapshotdomain.HistoryEntry
// @Router       /expenses/{parentId}/restore-history [get]
func (s *Server) RestoreHistory(c *gin.Context) {
	parentID, kind, err := parseSnapshotTarget(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries := s.snapshotSvc.History(c.Request.Context(), parentID, kind)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// @Summary      Latest Snapshot
// @Description  Fetch the newest active snapshot for a parent expense
// @Tags         snapshots
// @Produce      json
// @Param        parentId    path   string  true  "Parent Expense ID"
// @Param        table_name  query  string  true  "Expense table"
// @Success      200  {object}  snapshotdomain.ExpenseSnapshot
// @Router       /expenses/{parentId}/latest-snapshot [get]
func (s *Server) LatestSnapshot(c *gin.Context) {
	parentID, kind, err := parseSnapshotTarget(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	snap := s.snapshotSvc.Latest(c.Request.Context(), parentID, kind)
	if snap == nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// @Summary      Restore Parent
// @Description  Re-apply the latest snapshot onto the live parent row
// @Tags         snapshots
// @Produce      json
// @Param        parentId    path   string  true  "Parent Expense ID"
// @Param        table_name  query  string  true  "Expense table"
// @Success      200  {object}  map[string]any
// @Router       /expenses/{parentId}/restore [post]
func (s *Server) RestoreParent(c *gin.Context) {
	parentID, kind, err := parseSnapshotTarget(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	snap := s.snapshotSvc.Latest(ctx, parentID, kind)
	if snap == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if !s.snapshotSvc.RestoreParent(ctx, parentID, kind) {
		AbortWithError(c, ErrNotFound)
		return
	}

	actorID := s.actorID(c)
	s.snapshotSvc.MarkRestored(ctx, snap.ID, actorID)

	if s.auditSvc != nil {
		targetID := snap.ID.String()
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionParentRestore, "expense_snapshot", &targetID, map[string]any{
			"parent_expense_id": parentID.String(),
			"table_name":        kind.Table(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"restored":    true,
		"snapshot_id": snap.ID.String(),
	}})
}

// @Summary      Create Manual Snapshot
// @Description  Capture a parent expense snapshot on demand
// @Tags         snapshots
// @Produce      json
// @Param        parentId       path   string  true   "Parent Expense ID"
// @Param        table_name     query  string  true   "Expense table"
// @Param        snapshot_name  query  string  false  "Snapshot name"
// @Success      200  {object}  snapshotdomain.ExpenseSnapshot
// @Router       /expenses/{parentId}/snapshots [post]
func (s *Server) CreateManualSnapshot(c *gin.Context) {
	parentID, kind, err := parseSnapshotTarget(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	actorID := s.actorID(c)
	name := strings.TrimSpace(c.Query("snapshot_name"))

	snap := s.snapshotSvc.CreateManualSnapshot(ctx, parentID, kind, name, actorID)
	if snap == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if s.auditSvc != nil {
		targetID := snap.ID.String()
		_ = s.auditSvc.Record(ctx, actorID, auditdomain.ActionSnapshotManualCreate, "expense_snapshot", &targetID, map[string]any{
			"parent_expense_id": parentID.String(),
			"table_name":        kind.Table(),
			"name":              snap.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": snap})
}
