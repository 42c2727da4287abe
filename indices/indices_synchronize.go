package indices

import (
	"context"
	"sync"

	"orderflow/authority"
	"orderflow/bizerror"
	"orderflow/client/es"
	"orderflow/domain"
	"orderflow/event"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	OrderIndexEventHandlerName = "orderIndexer"
	indexRobot                 = &session.Context{
		Token:    "index-robot",
		Identity: session.Identity{ID: 10, Name: "index-robot"},
		Perms:    authority.Permissions{authority.SystemAdminPermission},
		Context:  context.Background(),
	}

	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun
)

// BootstrapIndexSync hooks the order index into the event stream
func BootstrapIndexSync() {
	event.EventHandlers = append(event.EventHandlers, OrderIndexEventHandler)
}

func OrderIndexEventHandler(record *event.EventRecord) *event.EventHandleResult {
	if record == nil || record.SourceType != event.SourceTypeWorkOrder {
		return nil
	}

	if record.EventCategory == event.EventCategoryDeleted {
		if err := es.DeleteDocumentByIdFunc(OrderIndexName, record.SourceId, indexRobot); err != nil {
			return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: OrderIndexEventHandlerName}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: OrderIndexEventHandlerName}
	}

	db := persistence.ActiveDataSourceManager.GormDB(nil)
	workOrder := domain.WorkOrder{}
	if err := db.Where(&domain.WorkOrder{ID: record.SourceId}).First(&workOrder).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil
		}
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: OrderIndexEventHandlerName}
	}
	if err := IndexOrdersFunc([]domain.WorkOrder{workOrder}); err != nil {
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: OrderIndexEventHandlerName}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: OrderIndexEventHandlerName}
}

func ScheduleNewSyncRun(sec *session.Context) (bool, error) {
	if !sec.IsAdmin() {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	waitRunning := sync.WaitGroup{}
	waitRunning.Add(1)
	go func() {
		waitRunning.Done()
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		IndicesFullSyncFunc()
	}()
	waitRunning.Wait()
	return true, nil
}

var SyncBatchSize = 500

func IndicesFullSync() {
	page := 0
	db := persistence.ActiveDataSourceManager.GormDB(nil)

	for {
		orders := make([]domain.WorkOrder, 0, SyncBatchSize)
		if err := db.Order("id ASC").Offset(page * SyncBatchSize).Limit(SyncBatchSize).Find(&orders).Error; err != nil {
			logrus.Errorf("full index sync: page = %d, batch = %d, err = %v", page, SyncBatchSize, err)
			break
		}

		if len(orders) == 0 {
			logrus.Infof("full index sync: no more orders to index")
			break
		}

		if err := IndexOrdersFunc(orders); err != nil {
			logrus.Errorf("full index sync: page = %d, err = %v", page, err)
		}
		page++
	}
}
