package order_test

import (
	"testing"
	"time"

	"orderflow/authority"
	"orderflow/domain"
	"orderflow/domain/order"
	"orderflow/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestQueryOrderStages(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should list the ledger earliest first with assignee names and attachments", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		created := prepareOrder(t, 200)

		db := testDatabase.DS.GormDB(nil)
		Expect(db.Create(&domain.StageAttachment{ID: 99, OrderID: created.ID, StageID: created.Stages[1].ID,
			FileName: "f.pdf", UploadTime: types.CurrentTimestamp()}).Error).To(BeNil())

		stages, err := order.QueryOrderStages(&domain.OrderStageQuery{OrderID: created.ID},
			testinfra.BuildSecCtx(200))
		Expect(err).To(BeNil())
		Expect(len(*stages)).To(Equal(2))
		Expect((*stages)[0].StageName).To(Equal(domain.StageCreated))
		Expect((*stages)[0].AssigneeName).To(Equal("user100"))
		Expect(len((*stages)[0].Attachments)).To(BeZero())
		Expect((*stages)[1].StageName).To(Equal("生产"))
		Expect((*stages)[1].AssigneeName).To(Equal("user200"))
		Expect(len((*stages)[1].Attachments)).To(Equal(1))
		Expect((*stages)[1].Attachments[0].FileName).To(Equal("f.pdf"))
	})

	t.Run("should return an empty ledger for invisible or unknown orders", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		created := prepareOrder(t, 200)

		stages, err := order.QueryOrderStages(&domain.OrderStageQuery{OrderID: created.ID},
			testinfra.BuildSecCtx(999))
		Expect(err).To(BeNil())
		Expect(len(*stages)).To(BeZero())

		stages, err = order.QueryOrderStages(&domain.OrderStageQuery{OrderID: 404},
			testinfra.BuildSecCtx(1, authority.SystemAdminPermission))
		Expect(err).To(BeNil())
		Expect(len(*stages)).To(BeZero())
	})

	t.Run("should clamp a negative close duration to zero", func(t *testing.T) {
		defer ordersTestTeardown(t, testDatabase)
		ordersTestSetup(t, &testDatabase)
		created := prepareOrder(t, 200)

		// push the open stage's begin time into the future
		db := testDatabase.DS.GormDB(nil)
		future := types.Timestamp(types.CurrentTimestamp().Time().Add(time.Hour))
		Expect(db.Model(&domain.OrderStage{}).Where("id = ?", created.Stages[1].ID).
			Update("begin_time", future).Error).To(BeNil())

		_, err := order.TransitionWorkOrder(&domain.WorkOrderTransition{OrderID: created.ID,
			NextStageName: "质检", NextAssigneeID: 300}, nil, testinfra.BuildSecCtx(200))
		Expect(err).To(BeNil())

		closed := domain.OrderStage{}
		Expect(db.Where(&domain.OrderStage{ID: created.Stages[1].ID}).First(&closed).Error).To(BeNil())
		Expect(closed.IsOpen()).To(BeFalse())
		Expect(closed.DurationSeconds).To(BeZero())
	})
}
