package domain

import (
	"github.com/fundwit/go-commons/types"
)

const (
	// StageCreated is the stage every order starts in
	StageCreated = "创建工单"
	// StageCompleted is the terminal sentinel: reaching it closes the ledger
	StageCompleted = "完成"
)

// KnownStageLabels back the stage-name pickers. Stage names are plain
// strings, any label outside this list is still accepted.
var KnownStageLabels = []string{
	StageCreated,
	"生产",
	"质检",
	"包装",
	"发货",
	StageCompleted,
}

type OrderStage struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	OrderID types.ID `json:"orderId" gorm:"index:idx_stage_order"`

	StageName  string   `json:"stageName"`
	AssigneeID types.ID `json:"assigneeId"`

	BeginTime types.Timestamp `json:"beginTime" sql:"type:DATETIME(6) NOT NULL"`
	// zero while the stage is open
	EndTime types.Timestamp `json:"endTime" sql:"type:DATETIME(6)"`
	// computed once when the stage is closed, never recomputed
	DurationSeconds int64 `json:"durationSeconds"`

	Comment string `json:"comment" sql:"type:TEXT"`
}

func (r *OrderStage) TableName() string {
	return "order_stages"
}

func (r *OrderStage) IsOpen() bool {
	return r.EndTime.IsZero()
}

type StageAttachment struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	OrderID types.ID `json:"orderId" gorm:"index:idx_attachment_order"`
	StageID types.ID `json:"stageId" gorm:"index:idx_attachment_stage"`

	// storage handle: {orderId}_{stageId}_{timestamp}_{originalName}
	FileName   string          `json:"fileName"`
	UploadTime types.Timestamp `json:"uploadTime" sql:"type:DATETIME(6)"`
}

func (r *StageAttachment) TableName() string {
	return "stage_attachments"
}

type OrderStageQuery struct {
	OrderID types.ID `json:"orderId" form:"orderId" binding:"required" validate:"required"`
}

type OrderStageDetail struct {
	OrderStage

	AssigneeName string            `json:"assigneeName"`
	Attachments  []StageAttachment `json:"attachments"`
}
