package worker

import (
	"context"
	"errors"
	"time"

	"github.com/franchise-next/internal/config"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/queue"

	"github.com/hibiken/asynq"
)

const lowStockDigestInterval = 24 * time.Hour

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.EmailService != nil && s.consumer.InventoryService != nil {
		go s.runLowStockDigestLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runLowStockDigestLoop 周期汇总全部门店低库存并发送清单邮件
func (s *Service) runLowStockDigestLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	runOnce := func() {
		items, err := s.consumer.InventoryService.LowStock(0)
		if err != nil {
			logger.Warnw("worker_low_stock_digest_query_failed", "error", err)
			return
		}
		if len(items) == 0 {
			return
		}
		if err := s.consumer.EmailService.SendLowStockDigest(items); err != nil {
			logger.Warnw("worker_low_stock_digest_send_failed", "count", len(items), "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(lowStockDigestInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
