package order

import (
	"errors"

	"orderflow/bizerror"
	"orderflow/common"
	"orderflow/domain"
	"orderflow/event"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	TransitionWorkOrderFunc = TransitionWorkOrder
)

// TransitionWorkOrder advances an order to its next handoff stage as
// one transaction: close the open stage, open the next one (or seal
// the ledger when the target is 完成), refresh the denormalized order
// pointers, and record the optional attachment against the stage just
// closed. The order row is locked for the whole sequence so two
// concurrent transitions serialize instead of double-closing a stage.
func TransitionWorkOrder(c *domain.WorkOrderTransition, upload *StageAttachmentUpload,
	sec *session.Context) (*domain.WorkOrder, error) {

	if c.NextStageName != domain.StageCompleted && c.NextAssigneeID == 0 {
		return nil, &common.ErrBadParam{Cause: errors.New("nextAssigneeId is required")}
	}

	var updatedOrder domain.WorkOrder
	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		workOrder := domain.WorkOrder{}
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.WorkOrder{ID: c.OrderID}).First(&workOrder).Error; err != nil {
			return err
		}
		if workOrder.IsCompleted() {
			return bizerror.ErrOrderCompleted
		}
		if !CanTransition(&workOrder, sec) {
			return bizerror.ErrForbidden
		}

		now := types.CurrentTimestamp()
		closed, err := closeOpenStage(tx, workOrder.ID, now, c.Comment)
		if err != nil {
			return err
		}

		previousAssigneeID := workOrder.CurrentAssigneeID
		if c.NextStageName == domain.StageCompleted {
			// terminal: no new stage, the last assignee stays on record
			workOrder.CurrentStage = domain.StageCompleted
		} else {
			if _, err := openStage(tx, workOrder.ID, c.NextStageName, c.NextAssigneeID, now); err != nil {
				return err
			}
			workOrder.CurrentStage = c.NextStageName
			workOrder.CurrentAssigneeID = c.NextAssigneeID
		}

		// optimistic guard on the denormalized pointer: the stage we
		// closed must still be the one the order points at
		q := tx.Model(&domain.WorkOrder{}).
			Where("id = ? AND current_stage = ?", workOrder.ID, closed.StageName).
			Update(map[string]interface{}{"current_stage": workOrder.CurrentStage,
				"current_assignee_id": workOrder.CurrentAssigneeID})
		if err := q.Error; err != nil {
			return err
		}
		if q.RowsAffected != 1 {
			return bizerror.ErrStageConflict
		}

		if upload != nil {
			if _, err := saveAttachment(tx, &workOrder, closed, upload, now, sec); err != nil {
				return err
			}
		}

		ev, err = event.CreateEvent(event.SourceTypeWorkOrder, workOrder.ID, workOrder.OrderNumber,
			event.EventCategoryTransited, []event.UpdatedProperty{
				{PropertyName: "CurrentStage", OldValue: closed.StageName, NewValue: workOrder.CurrentStage},
				{PropertyName: "CurrentAssignee", OldValue: previousAssigneeID.String(),
					NewValue: workOrder.CurrentAssigneeID.String()},
			}, &sec.Identity, tx)
		if err != nil {
			return err
		}

		return tx.Where(&domain.WorkOrder{ID: workOrder.ID}).First(&updatedOrder).Error
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &updatedOrder, nil
}
