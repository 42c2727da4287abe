package order

import (
	"errors"

	"orderflow/account"
	"orderflow/bizerror"
	"orderflow/common"
	"orderflow/domain"
	"orderflow/event"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	orderIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWorkOrderFunc = CreateWorkOrder
	QueryWorkOrdersFunc = QueryWorkOrders
	DetailWorkOrderFunc = DetailWorkOrder
	DeleteWorkOrderFunc = DeleteWorkOrder
)

// CreateWorkOrder records a new order and its initial ledger. The
// creating actor always owns the opening 创建工单 stage; when a next
// stage is supplied it is opened right away and the opening stage is
// closed with zero duration.
func CreateWorkOrder(c *domain.WorkOrderCreation, sec *session.Context) (*domain.WorkOrderDetail, error) {
	if !sec.CanCreateOrder() {
		return nil, bizerror.ErrForbidden
	}
	if c.Quantity <= 0 {
		return nil, bizerror.ErrInvalidQuantity
	}
	orderDate, err := domain.ParseOrderDate(c.OrderDate)
	if err != nil {
		return nil, err
	}
	deliveryDate, err := domain.ParseOrderDate(c.DeliveryDate)
	if err != nil {
		return nil, err
	}
	totalDuration, err := domain.ElapsedSeconds(orderDate, deliveryDate)
	if err != nil {
		return nil, err
	}

	now := types.CurrentTimestamp()
	workOrder := domain.WorkOrder{
		ID:          common.NextId(orderIdWorker),
		OrderNumber: c.OrderNumber,

		OrderDate:            orderDate,
		Quantity:             c.Quantity,
		DeliveryDate:         deliveryDate,
		TotalDurationSeconds: totalDuration,

		SalespersonID:     sec.Identity.ID,
		CurrentStage:      domain.StageCreated,
		CurrentAssigneeID: sec.Identity.ID,
		CreateTime:        now,
	}

	var ev *event.EventRecord
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workOrder).Error; err != nil {
			return err
		}
		if _, err := openStage(tx, workOrder.ID, domain.StageCreated, sec.Identity.ID, now); err != nil {
			return err
		}

		if c.NextStageName != "" {
			if _, err := closeOpenStage(tx, workOrder.ID, now, ""); err != nil {
				return err
			}
			if c.NextStageName == domain.StageCompleted {
				workOrder.CurrentStage = domain.StageCompleted
			} else {
				if c.NextAssigneeID == 0 {
					return &common.ErrBadParam{Cause: errors.New("nextAssigneeId is required")}
				}
				if _, err := openStage(tx, workOrder.ID, c.NextStageName, c.NextAssigneeID, now); err != nil {
					return err
				}
				workOrder.CurrentStage = c.NextStageName
				workOrder.CurrentAssigneeID = c.NextAssigneeID
			}
			q := tx.Model(&domain.WorkOrder{}).Where("id = ?", workOrder.ID).
				Update(map[string]interface{}{"current_stage": workOrder.CurrentStage,
					"current_assignee_id": workOrder.CurrentAssigneeID})
			if err := q.Error; err != nil {
				return err
			}
		}

		var err error
		ev, err = event.CreateEvent(event.SourceTypeWorkOrder, workOrder.ID, workOrder.OrderNumber,
			event.EventCategoryCreated, nil, &sec.Identity, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}

	stages, err := loadStageDetails(db, workOrder.ID)
	if err != nil {
		return nil, err
	}
	detail := domain.WorkOrderDetail{WorkOrder: workOrder, Stages: *stages}
	fillAccountNames(&detail)
	return &detail, nil
}

// QueryWorkOrders lists the orders visible to the actor: everything for
// an administrator, otherwise orders the actor sells or has ever been
// an assignee on.
func QueryWorkOrders(query *domain.WorkOrderQuery, sec *session.Context) (*[]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	q := db.Model(&domain.WorkOrder{})
	if query.OrderNumber != "" {
		q = q.Where("order_number LIKE ?", "%"+query.OrderNumber+"%")
	}
	if !sec.IsAdmin() {
		q = q.Where("salesperson_id = ? OR id IN (SELECT DISTINCT order_id FROM order_stages WHERE assignee_id = ?)",
			sec.Identity.ID, sec.Identity.ID)
	}
	if err := q.Order("create_time DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return &orders, nil
}

func DetailWorkOrder(id types.ID, sec *session.Context) (*domain.WorkOrderDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	detail := domain.WorkOrderDetail{}
	if err := db.Where(&domain.WorkOrder{ID: id}).First(&detail.WorkOrder).Error; err != nil {
		return nil, err
	}
	visible, err := isOrderVisible(db, &detail.WorkOrder, sec)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, bizerror.ErrForbidden
	}

	stages, err := loadStageDetails(db, id)
	if err != nil {
		return nil, err
	}
	detail.Stages = *stages
	fillAccountNames(&detail)
	return &detail, nil
}

// DeleteWorkOrder is an administrative override: the order vanishes
// with its whole ledger and attachment records.
func DeleteWorkOrder(id types.ID, sec *session.Context) error {
	if !sec.IsAdmin() {
		return bizerror.ErrForbidden
	}

	var ev *event.EventRecord
	err := persistence.ActiveDataSourceManager.GormDB(sec.Context).Transaction(func(tx *gorm.DB) error {
		workOrder := domain.WorkOrder{}
		err := tx.Where(&domain.WorkOrder{ID: id}).First(&workOrder).Error
		if err == nil {
			ev, err = event.CreateEvent(event.SourceTypeWorkOrder, workOrder.ID, workOrder.OrderNumber,
				event.EventCategoryDeleted, nil, &sec.Identity, tx)
			if err != nil {
				return err
			}
		} else if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		if err := tx.Delete(domain.WorkOrder{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(domain.OrderStage{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(domain.StageAttachment{}, "order_id = ?", id).Error
	})
	if err != nil {
		return err
	}
	if ev != nil && event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

// isOrderVisible implements the visibility rule of the persistence
// contract: admin, salesperson, or ever-assignee of any stage.
func isOrderVisible(db *gorm.DB, w *domain.WorkOrder, sec *session.Context) (bool, error) {
	if sec == nil {
		return false, nil
	}
	if sec.IsAdmin() || w.SalespersonID == sec.Identity.ID {
		return true, nil
	}
	count := 0
	err := db.Model(&domain.OrderStage{}).
		Where(&domain.OrderStage{OrderID: w.ID, AssigneeID: sec.Identity.ID}).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func fillAccountNames(detail *domain.WorkOrderDetail) {
	names, err := account.QueryAccountNamesFunc([]types.ID{detail.SalespersonID, detail.CurrentAssigneeID})
	if err != nil {
		return
	}
	detail.SalespersonName = names[detail.SalespersonID]
	detail.CurrentAssigneeName = names[detail.CurrentAssigneeID]
}
