package api

import (
	"strconv"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/models"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductUpsertRequest 商品创建/更新请求
type ProductUpsertRequest struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	ImageURL    string       `json:"image_url"`
	MinPrice    models.Money `json:"min_price"`
	MaxPrice    models.Money `json:"max_price"`
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
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

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   parseUintQuery(c, "category_id"),
		Keyword:      c.Query("search"),
		OnlyActive:   onlyActive,
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}

	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	product, err := h.ProductService.Get(id)
	if err != nil {
		respondServiceError(c, err, "product fetch failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req ProductUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	product, err := h.ProductService.Create(service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "product create failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req ProductUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	product, err := h.ProductService.Update(id, service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "product update failed")
		return
	}
	response.Success(c, product)
}

// SetProductActive 上架/下架商品
func (h *Handler) SetProductActive(c *gin.Context) {
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

	product, err := h.ProductService.SetActive(id, *req.IsActive, operatorID, getRequestID(c))
	if err != nil {
		respondServiceError(c, err, "product status update failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品（存在在售单品时拒绝）
func (h *Handler) DeleteProduct(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.ProductService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "product delete failed")
		return
	}
	response.Success(c, nil)
}
