package api

import (
	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryUpsertRequest 分类创建/更新请求
type CategoryUpsertRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	page, pageSize := parsePagination(c)

	categories, total, err := h.CategoryService.List(repository.CategoryListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "category fetch failed", err)
		return
	}

	response.SuccessWithPage(c, categories, response.NewPagination(page, pageSize, total))
}

// GetCategory 获取分类详情
func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	category, err := h.CategoryService.Get(id)
	if err != nil {
		respondServiceError(c, err, "category fetch failed")
		return
	}
	response.Success(c, category)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CategoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	category, err := h.CategoryService.Create(service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "category create failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req CategoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	category, err := h.CategoryService.Update(id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "category update failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类（分类下存在商品时拒绝）
func (h *Handler) DeleteCategory(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.CategoryService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "category delete failed")
		return
	}
	response.Success(c, nil)
}
