package order

import (
	"errors"

	"orderflow/account"
	"orderflow/bizerror"
	"orderflow/common"
	"orderflow/domain"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	stageIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryOrderStagesFunc = QueryOrderStages
)

// currentOpenStage returns the single open stage of an order, or nil
// when the order is terminal.
func currentOpenStage(db *gorm.DB, orderId types.ID) (*domain.OrderStage, error) {
	stage := domain.OrderStage{}
	err := db.Where(&domain.OrderStage{OrderID: orderId}).Where("end_time = ?", types.Timestamp{}).
		First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stage, nil
}

// openStage appends a new open stage to the order's ledger. The order
// must not have an open stage yet.
func openStage(db *gorm.DB, orderId types.ID, stageName string, assigneeId types.ID,
	beginTime types.Timestamp) (*domain.OrderStage, error) {

	open, err := currentOpenStage(db, orderId)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, bizerror.ErrStageConflict
	}

	stage := domain.OrderStage{ID: common.NextId(stageIdWorker), OrderID: orderId,
		StageName: stageName, AssigneeID: assigneeId, BeginTime: beginTime}
	if err := db.Create(&stage).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

// closeOpenStage seals the open stage: end time, duration and comment
// are written exactly once. A negative clock delta is clamped to zero.
func closeOpenStage(db *gorm.DB, orderId types.ID, endTime types.Timestamp, comment string) (*domain.OrderStage, error) {
	open, err := currentOpenStage(db, orderId)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, bizerror.ErrNoOpenStage
	}

	duration, err := domain.ElapsedSeconds(open.BeginTime, endTime)
	if err != nil {
		logrus.Warnf("stage %d of order %d closed before it began, clamping duration to 0", open.ID, orderId)
		duration = 0
	}

	q := db.Model(&domain.OrderStage{}).Where("id = ? AND end_time = ?", open.ID, types.Timestamp{}).
		Update(map[string]interface{}{"end_time": endTime, "duration_seconds": duration, "comment": comment})
	if err := q.Error; err != nil {
		return nil, err
	}
	if q.RowsAffected != 1 {
		return nil, bizerror.ErrNoOpenStage
	}

	open.EndTime = endTime
	open.DurationSeconds = duration
	open.Comment = comment
	return open, nil
}

// QueryOrderStages lists the ledger of one order, earliest stage first.
func QueryOrderStages(query *domain.OrderStageQuery, sec *session.Context) (*[]domain.OrderStageDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)

	w := domain.WorkOrder{}
	if err := db.Where(&domain.WorkOrder{ID: query.OrderID}).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &[]domain.OrderStageDetail{}, nil
		}
		return nil, err
	}
	visible, err := isOrderVisible(db, &w, sec)
	if err != nil {
		return nil, err
	}
	if !visible {
		return &[]domain.OrderStageDetail{}, nil
	}

	return loadStageDetails(db, query.OrderID)
}

func loadStageDetails(db *gorm.DB, orderId types.ID) (*[]domain.OrderStageDetail, error) {
	var stages []domain.OrderStage
	if err := db.Where(&domain.OrderStage{OrderID: orderId}).Order("begin_time ASC").Find(&stages).Error; err != nil {
		return nil, err
	}
	var attachments []domain.StageAttachment
	if err := db.Where(&domain.StageAttachment{OrderID: orderId}).Order("upload_time ASC").Find(&attachments).Error; err != nil {
		return nil, err
	}
	attachmentsByStage := map[types.ID][]domain.StageAttachment{}
	for _, a := range attachments {
		attachmentsByStage[a.StageID] = append(attachmentsByStage[a.StageID], a)
	}

	assigneeIds := make([]types.ID, 0, len(stages))
	for _, s := range stages {
		assigneeIds = append(assigneeIds, s.AssigneeID)
	}
	names, err := account.QueryAccountNamesFunc(assigneeIds)
	if err != nil {
		return nil, err
	}

	details := make([]domain.OrderStageDetail, 0, len(stages))
	for _, s := range stages {
		details = append(details, domain.OrderStageDetail{OrderStage: s,
			AssigneeName: names[s.AssigneeID], Attachments: attachmentsByStage[s.ID]})
	}
	return &details, nil
}
