package api

import (
	"strconv"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FranchiseUpsertRequest 门店创建/更新请求
type FranchiseUpsertRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Hotline  string `json:"hotline"`
	LogoURL  string `json:"logo_url"`
	Address  string `json:"address"`
	OpenedAt string `json:"opened_at"`
	ClosedAt string `json:"closed_at"`
}

// GetFranchises 获取门店列表
func (h *Handler) GetFranchises(c *gin.Context) {
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

	franchises, total, err := h.FranchiseService.List(repository.FranchiseListFilter{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    c.Query("search"),
		OnlyActive: onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "franchise fetch failed", err)
		return
	}

	response.SuccessWithPage(c, franchises, response.NewPagination(page, pageSize, total))
}

// GetFranchise 获取门店详情
func (h *Handler) GetFranchise(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	franchise, err := h.FranchiseService.Get(id)
	if err != nil {
		respondServiceError(c, err, "franchise fetch failed")
		return
	}
	response.Success(c, franchise)
}

// CreateFranchise 创建门店
func (h *Handler) CreateFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req FranchiseUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	franchise, err := h.FranchiseService.Create(service.FranchiseInput{
		Code:       req.Code,
		Name:       req.Name,
		Hotline:    req.Hotline,
		LogoURL:    req.LogoURL,
		Address:    req.Address,
		OpenedAt:   req.OpenedAt,
		ClosedAt:   req.ClosedAt,
		OperatorID: operatorID,
		RequestID:  getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "franchise create failed")
		return
	}
	response.Success(c, franchise)
}

// UpdateFranchise 更新门店
func (h *Handler) UpdateFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req FranchiseUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	franchise, err := h.FranchiseService.Update(id, service.FranchiseInput{
		Code:       req.Code,
		Name:       req.Name,
		Hotline:    req.Hotline,
		LogoURL:    req.LogoURL,
		Address:    req.Address,
		OpenedAt:   req.OpenedAt,
		ClosedAt:   req.ClosedAt,
		OperatorID: operatorID,
		RequestID:  getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "franchise update failed")
		return
	}
	response.Success(c, franchise)
}

// SetActiveRequest 启用/停用请求
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetFranchiseActive 启用/停用门店
func (h *Handler) SetFranchiseActive(c *gin.Context) {
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

	franchise, err := h.FranchiseService.SetActive(id, *req.IsActive, operatorID, getRequestID(c))
	if err != nil {
		respondServiceError(c, err, "franchise status update failed")
		return
	}
	response.Success(c, franchise)
}

// DeleteFranchise 删除门店
func (h *Handler) DeleteFranchise(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	if err := h.FranchiseService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "franchise delete failed")
		return
	}
	response.Success(c, nil)
}
