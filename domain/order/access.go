package order

import (
	"orderflow/domain"
	"orderflow/session"
)

// CanTransition tells whether the actor may advance the order to its
// next stage: administrators always may, otherwise only the assignee
// of the current stage. Completed orders cannot be advanced by anyone
// but an administrator has no say either, the ledger is sealed.
func CanTransition(w *domain.WorkOrder, sec *session.Context) bool {
	if sec == nil || w == nil {
		return false
	}
	if w.IsCompleted() {
		return false
	}
	if sec.IsAdmin() {
		return true
	}
	return w.CurrentAssigneeID == sec.Identity.ID
}
