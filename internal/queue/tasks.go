package queue

import (
	"encoding/json"

	"github.com/franchise-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLowStockAlert 低库存告警任务
	TaskLowStockAlert = constants.TaskLowStockAlert
)

// LowStockAlertPayload 低库存告警任务载荷
type LowStockAlertPayload struct {
	InventoryID        uint `json:"inventory_id"`
	ProductFranchiseID uint `json:"product_franchise_id"`
	Available          int  `json:"available"`
	AlertThreshold     int  `json:"alert_threshold"`
}

// NewLowStockAlertTask 创建低库存告警任务
func NewLowStockAlertTask(payload LowStockAlertPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body), nil
}
