package events

// Expense event types stored in the outbox.
const (
	EventSnapshotCreated      = "expense.snapshot_created"
	EventParentRestored       = "expense.parent_restored"
	EventProjectStatusChanged = "project.status_changed"
)

// StatusChangedPayload carries what the flow-rule evaluator needs.
type StatusChangedPayload struct {
	ProjectID    string `json:"project_id"`
	StatusID     string `json:"status_id"`
	PrevStatusID string `json:"prev_status_id,omitempty"`
	ActorID      string `json:"actor_id,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p StatusChangedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"project_id": p.ProjectID,
		"status_id":  p.StatusID,
	}
	if p.PrevStatusID != "" {
		payload["prev_status_id"] = p.PrevStatusID
	}
	if p.ActorID != "" {
		payload["actor_id"] = p.ActorID
	}
	return payload
}
