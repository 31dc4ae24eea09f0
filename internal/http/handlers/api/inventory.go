package api

import (
	"strconv"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInventoryRequest 初始化库存请求
type CreateInventoryRequest struct {
	ProductFranchiseID uint `json:"product_franchise_id" binding:"required"`
	Quantity           int  `json:"quantity"`
	AlertThreshold     int  `json:"alert_threshold"`
}

// UpdateInventoryRequest 更新库存设置请求
type UpdateInventoryRequest struct {
	AlertThreshold *int  `json:"alert_threshold"`
	IsActive       *bool `json:"is_active"`
}

// StockOpRequest 订单驱动库存操作请求（预占/释放/扣减）
type StockOpRequest struct {
	ProductFranchiseID uint   `json:"product_franchise_id" binding:"required"`
	Quantity           int    `json:"quantity" binding:"required"`
	ReferenceID        string `json:"reference_id" binding:"required"`
}

// AdjustStockRequest 手动调整库存请求
type AdjustStockRequest struct {
	ProductFranchiseID uint   `json:"product_franchise_id" binding:"required"`
	Change             int    `json:"change" binding:"required"`
	Reason             string `json:"reason" binding:"required"`
	ReferenceType      string `json:"reference_type"`
	ReferenceID        string `json:"reference_id"`
}

// GetInventories 获取库存列表
func (h *Handler) GetInventories(c *gin.Context) {
	page, pageSize := parsePagination(c)

	onlyActive := false
	if raw := c.Query("only_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid request", err)
			return
		}
		onlyActive = parsed
	}

	// 门店账号只能看本店库存
	franchiseID := parseUintQuery(c, "franchise_id")
	if bound := getFranchiseID(c); bound != 0 {
		franchiseID = bound
	}

	items, total, err := h.InventoryService.List(repository.InventoryListFilter{
		Page:               page,
		PageSize:           pageSize,
		ProductFranchiseID: parseUintQuery(c, "product_franchise_id"),
		FranchiseID:        franchiseID,
		ProductID:          parseUintQuery(c, "product_id"),
		OnlyActive:         onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "inventory fetch failed", err)
		return
	}

	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetInventory 获取库存详情
func (h *Handler) GetInventory(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	inventory, err := h.InventoryService.Get(id)
	if err != nil {
		respondServiceError(c, err, "inventory fetch failed")
		return
	}
	response.Success(c, inventory)
}

// CreateInventory 初始化在售单品库存
func (h *Handler) CreateInventory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	inventory, err := h.InventoryService.Create(service.CreateInventoryInput{
		ProductFranchiseID: req.ProductFranchiseID,
		Quantity:           req.Quantity,
		AlertThreshold:     req.AlertThreshold,
		OperatorID:         operatorID,
		RequestID:          getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "inventory create failed")
		return
	}
	response.Success(c, inventory)
}

// UpdateInventory 更新库存设置（告警阈值/启停）
func (h *Handler) UpdateInventory(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	if req.AlertThreshold == nil && req.IsActive == nil {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var inventory interface{}
	if req.AlertThreshold != nil {
		updated, err := h.InventoryService.UpdateThreshold(id, *req.AlertThreshold)
		if err != nil {
			respondServiceError(c, err, "inventory update failed")
			return
		}
		inventory = updated
	}
	if req.IsActive != nil {
		updated, err := h.InventoryService.SetActive(id, *req.IsActive)
		if err != nil {
			respondServiceError(c, err, "inventory update failed")
			return
		}
		inventory = updated
	}
	response.Success(c, inventory)
}

// DeleteInventory 删除库存记录（仍有预占量时拒绝）
func (h *Handler) DeleteInventory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.InventoryService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "inventory delete failed")
		return
	}
	response.Success(c, nil)
}

// RestoreInventory 恢复已删除的库存记录
func (h *Handler) RestoreInventory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.InventoryService.Restore(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "inventory restore failed")
		return
	}
	response.Success(c, nil)
}

// ReserveStock 预占库存（下单）
func (h *Handler) ReserveStock(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req StockOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	inventory, err := h.InventoryService.Reserve(service.StockOpInput{
		ProductFranchiseID: req.ProductFranchiseID,
		Quantity:           req.Quantity,
		ReferenceID:        req.ReferenceID,
		OperatorID:         operatorID,
	})
	if err != nil {
		respondServiceError(c, err, "stock reserve failed")
		return
	}
	response.Success(c, inventory)
}

// ReleaseStock 释放预占（取消订单）
func (h *Handler) ReleaseStock(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req StockOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	inventory, err := h.InventoryService.Release(service.StockOpInput{
		ProductFranchiseID: req.ProductFranchiseID,
		Quantity:           req.Quantity,
		ReferenceID:        req.ReferenceID,
		OperatorID:         operatorID,
	})
	if err != nil {
		respondServiceError(c, err, "stock release failed")
		return
	}
	response.Success(c, inventory)
}

// DeductStock 扣减库存（发货核销）
func (h *Handler) DeductStock(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req StockOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	inventory, err := h.InventoryService.Deduct(service.StockOpInput{
		ProductFranchiseID: req.ProductFranchiseID,
		Quantity:           req.Quantity,
		ReferenceID:        req.ReferenceID,
		OperatorID:         operatorID,
	})
	if err != nil {
		respondServiceError(c, err, "stock deduct failed")
		return
	}
	response.Success(c, inventory)
}

// AdjustStock 手动调整库存（盘点/报损/进货）
func (h *Handler) AdjustStock(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	inventory, err := h.InventoryService.Adjust(service.AdjustStockInput{
		ProductFranchiseID: req.ProductFranchiseID,
		Change:             req.Change,
		Reason:             req.Reason,
		ReferenceType:      req.ReferenceType,
		ReferenceID:        req.ReferenceID,
		OperatorID:         operatorID,
	})
	if err != nil {
		respondServiceError(c, err, "stock adjust failed")
		return
	}
	response.Success(c, inventory)
}

// GetInventoryLogs 获取单条库存的流水（新在前）
func (h *Handler) GetInventoryLogs(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	page, pageSize := parsePagination(c)

	logs, total, err := h.InventoryService.ListLogs(id, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "inventory log fetch failed")
		return
	}

	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// GetInventoryLogsByReference 按业务引用获取流水（旧在前）
func (h *Handler) GetInventoryLogsByReference(c *gin.Context) {
	referenceType := c.Query("reference_type")
	referenceID := c.Query("reference_id")
	if referenceType == "" || referenceID == "" {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	logs, err := h.InventoryService.ListLogsByReference(referenceType, referenceID)
	if err != nil {
		respondServiceError(c, err, "inventory log fetch failed")
		return
	}
	response.Success(c, logs)
}

// GetLowStock 获取低库存清单
func (h *Handler) GetLowStock(c *gin.Context) {
	franchiseID := parseUintQuery(c, "franchise_id")
	if bound := getFranchiseID(c); bound != 0 {
		franchiseID = bound
	}

	items, err := h.InventoryService.LowStock(franchiseID)
	if err != nil {
		respondError(c, response.CodeInternal, "low stock fetch failed", err)
		return
	}
	response.Success(c, items)
}
