package api

import (
	"strconv"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateListingRequest 上架在售单品请求
type CreateListingRequest struct {
	ProductID   uint         `json:"product_id" binding:"required"`
	FranchiseID uint         `json:"franchise_id" binding:"required"`
	Size        string       `json:"size" binding:"required"`
	PriceBase   models.Money `json:"price_base"`
}

// UpdateListingRequest 更新在售单品请求（商品/门店绑定不可变）
type UpdateListingRequest struct {
	Size      string       `json:"size" binding:"required"`
	PriceBase models.Money `json:"price_base"`
}

// GetProductFranchises 获取在售单品列表
func (h *Handler) GetProductFranchises(c *gin.Context) {
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

	// 门店账号只能看本店在售单品
	franchiseID := parseUintQuery(c, "franchise_id")
	if bound := getFranchiseID(c); bound != 0 {
		franchiseID = bound
	}

	listings, total, err := h.ProductFranchiseService.List(repository.ProductFranchiseListFilter{
		Page:        page,
		PageSize:    pageSize,
		ProductID:   parseUintQuery(c, "product_id"),
		FranchiseID: franchiseID,
		Size:        c.Query("size"),
		OnlyActive:  onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "listing fetch failed", err)
		return
	}

	response.SuccessWithPage(c, listings, response.NewPagination(page, pageSize, total))
}

// GetProductFranchise 获取在售单品详情
func (h *Handler) GetProductFranchise(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	listing, err := h.ProductFranchiseService.Get(id)
	if err != nil {
		respondServiceError(c, err, "listing fetch failed")
		return
	}
	response.Success(c, listing)
}

// CreateProductFranchise 上架在售单品
func (h *Handler) CreateProductFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	listing, err := h.ProductFranchiseService.Create(service.ProductFranchiseInput{
		ProductID:   req.ProductID,
		FranchiseID: req.FranchiseID,
		Size:        req.Size,
		PriceBase:   req.PriceBase,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "listing create failed")
		return
	}
	response.Success(c, listing)
}

// UpdateProductFranchise 更新在售单品
func (h *Handler) UpdateProductFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	listing, err := h.ProductFranchiseService.Update(id, service.UpdateListingInput{
		Size:       req.Size,
		PriceBase:  req.PriceBase,
		OperatorID: operatorID,
		RequestID:  getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "listing update failed")
		return
	}
	response.Success(c, listing)
}

// SetProductFranchiseActive 上架/下架在售单品
func (h *Handler) SetProductFranchiseActive(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	listing, err := h.ProductFranchiseService.SetActive(id, *req.IsActive, operatorID, getRequestID(c))
	if err != nil {
		respondServiceError(c, err, "listing status update failed")
		return
	}
	response.Success(c, listing)
}

// DeleteProductFranchise 下架并删除在售单品
func (h *Handler) DeleteProductFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.ProductFranchiseService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "listing delete failed")
		return
	}
	response.Success(c, nil)
}
