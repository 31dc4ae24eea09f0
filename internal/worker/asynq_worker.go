package worker

import (
	"context"
	"encoding/json"

	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/provider"
	"github.com/franchise-next/internal/queue"
	"github.com/franchise-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLowStockAlert, c.handleLowStockAlert)
}

func (c *Consumer) handleLowStockAlert(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_low_stock_alert_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LowStockAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_low_stock_alert_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductFranchiseID == 0 {
		logger.Debugw("worker_low_stock_alert_skip_invalid_payload", "inventory_id", payload.InventoryID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_low_stock_alert_skip_email_service_nil", "inventory_id", payload.InventoryID)
		return nil
	}

	listing, err := c.ProductFranchiseRepo.GetByIDWithRelations(payload.ProductFranchiseID)
	if err != nil {
		logger.Warnw("worker_low_stock_alert_fetch_listing_failed",
			"product_franchise_id", payload.ProductFranchiseID,
			"error", err,
		)
		return err
	}
	if listing == nil {
		logger.Debugw("worker_low_stock_alert_skip_listing_not_found", "product_franchise_id", payload.ProductFranchiseID)
		return nil
	}

	input := service.LowStockAlertInput{
		Size:      listing.Size,
		Available: payload.Available,
		Threshold: payload.AlertThreshold,
	}
	if listing.Product != nil {
		input.ProductName = listing.Product.Name
	}
	if listing.Franchise != nil {
		input.FranchiseName = listing.Franchise.Name
	}

	if err := c.EmailService.SendLowStockAlert(input); err != nil {
		logger.Warnw("worker_low_stock_alert_send_failed",
			"inventory_id", payload.InventoryID,
			"product_franchise_id", payload.ProductFranchiseID,
			"available", payload.Available,
			"error", err,
		)
		return err
	}
	return nil
}
