package domain

import (
	"github.com/fundwit/go-commons/types"
)

type WorkOrder struct {
	ID          types.ID `json:"id" gorm:"primary_key"`
	OrderNumber string   `json:"orderNumber" gorm:"unique_index:uni_order_number"`

	OrderDate    types.Timestamp `json:"orderDate" sql:"type:DATETIME(6) NOT NULL"`
	Quantity     int             `json:"quantity"`
	DeliveryDate types.Timestamp `json:"deliveryDate" sql:"type:DATETIME(6) NOT NULL"`

	// delivery date minus order date, in seconds
	TotalDurationSeconds int64 `json:"totalDurationSeconds"`

	SalespersonID types.ID `json:"salespersonId"`

	// denormalized from the latest ledger stage, written only together with it
	CurrentStage      string   `json:"currentStage"`
	CurrentAssigneeID types.ID `json:"currentAssigneeId"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

func (r *WorkOrder) TableName() string {
	return "work_orders"
}

func (r *WorkOrder) IsCompleted() bool {
	return r.CurrentStage == StageCompleted
}

type WorkOrderCreation struct {
	OrderNumber  string `json:"orderNumber" binding:"required" validate:"required"`
	OrderDate    string `json:"orderDate" binding:"required" validate:"required"`
	Quantity     int    `json:"quantity" binding:"required" validate:"required"`
	DeliveryDate string `json:"deliveryDate" binding:"required" validate:"required"`

	NextStageName  string   `json:"nextStageName"`
	NextAssigneeID types.ID `json:"nextAssigneeId"`
}

type WorkOrderTransition struct {
	OrderID        types.ID `json:"orderId" binding:"required" validate:"required"`
	NextStageName  string   `json:"nextStageName" binding:"required" validate:"required"`
	NextAssigneeID types.ID `json:"nextAssigneeId"`
	Comment        string   `json:"comment"`
}

type WorkOrderQuery struct {
	OrderNumber string `json:"orderNumber" form:"orderNumber"`
}

type WorkOrderDetail struct {
	WorkOrder

	SalespersonName     string `json:"salespersonName"`
	CurrentAssigneeName string `json:"currentAssigneeName"`

	Stages []OrderStageDetail `json:"stages"`
}
