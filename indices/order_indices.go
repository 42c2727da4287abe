package indices

import (
	"fmt"

	"orderflow/client/es"
	"orderflow/domain"
	"orderflow/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var (
	OrderIndexName = "work_orders"

	IndexOrdersFunc = IndexOrders
)

type OrderDocument struct {
	domain.WorkOrder

	// every assignee that ever held a stage, drives visibility filtering
	AssigneeIDs []types.ID `json:"assigneeIds"`
	StageNames  []string   `json:"stageNames"`
}

type BatchActionError map[types.ID]error

func (e BatchActionError) Error() string {
	return fmt.Sprintf("%v", map[types.ID]error(e))
}

func IndexOrders(orders []domain.WorkOrder) error {
	docs := make([]OrderDocument, 0, len(orders))
	for _, w := range orders {
		doc, err := buildOrderDocument(w)
		if err != nil {
			return err
		}
		docs = append(docs, *doc)
	}

	return saveOrderDocuments(docs)
}

func buildOrderDocument(w domain.WorkOrder) (*OrderDocument, error) {
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var stages []domain.OrderStage
	if err := db.Where(&domain.OrderStage{OrderID: w.ID}).Order("begin_time ASC").Find(&stages).Error; err != nil {
		return nil, err
	}

	doc := OrderDocument{WorkOrder: w}
	seen := map[types.ID]bool{}
	for _, s := range stages {
		doc.StageNames = append(doc.StageNames, s.StageName)
		if !seen[s.AssigneeID] {
			seen[s.AssigneeID] = true
			doc.AssigneeIDs = append(doc.AssigneeIDs, s.AssigneeID)
		}
	}
	return &doc, nil
}

func saveOrderDocuments(docs []OrderDocument) error {
	errs := BatchActionError{}

	for _, doc := range docs {
		if err := es.IndexFunc(OrderIndexName, doc.ID, doc, indexRobot); err != nil {
			errs[doc.ID] = err
			logrus.Warnf("index order %d %s %s\n", doc.ID, doc.OrderNumber, err)
		} else {
			logrus.Infof("index order %d %s successfully\n", doc.ID, doc.OrderNumber)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
