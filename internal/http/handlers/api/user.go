package api

import (
	"strconv"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/repository"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateUserRequest 创建账号请求
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role" binding:"required"`
	FranchiseID *uint  `json:"franchise_id"`
}

// UpdateUserRequest 更新账号请求
type UpdateUserRequest struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role" binding:"required"`
	FranchiseID *uint  `json:"franchise_id"`
}

// GetUsers 获取账号列表
func (h *Handler) GetUsers(c *gin.Context) {
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

	users, total, err := h.UserService.List(repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     c.Query("search"),
		Role:        c.Query("role"),
		FranchiseID: parseUintQuery(c, "franchise_id"),
		Status:      c.Query("status"),
		OnlyActive:  onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "user fetch failed", err)
		return
	}

	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser 获取账号详情
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	user, err := h.UserService.Get(id)
	if err != nil {
		respondServiceError(c, err, "user fetch failed")
		return
	}
	response.Success(c, user)
}

// CreateUser 创建账号
func (h *Handler) CreateUser(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	user, err := h.UserService.Create(service.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Role:        req.Role,
		FranchiseID: req.FranchiseID,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "user create failed")
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新账号
func (h *Handler) UpdateUser(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	user, err := h.UserService.Update(id, service.UpdateUserInput{
		FullName:    req.FullName,
		Phone:       req.Phone,
		Role:        req.Role,
		FranchiseID: req.FranchiseID,
		OperatorID:  operatorID,
		RequestID:   getRequestID(c),
	})
	if err != nil {
		respondServiceError(c, err, "user update failed")
		return
	}
	response.Success(c, user)
}

// SetUserStatusRequest 设置账号状态请求
type SetUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetUserStatus 锁定/解锁账号
func (h *Handler) SetUserStatus(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	user, err := h.UserService.SetStatus(id, req.Status, operatorID, getRequestID(c))
	if err != nil {
		respondServiceError(c, err, "user status update failed")
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除账号
func (h *Handler) DeleteUser(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}
	if id == operatorID {
		respondError(c, response.CodeBadRequest, "cannot delete current account", nil)
		return
	}

	if err := h.UserService.Delete(id, operatorID, getRequestID(c)); err != nil {
		respondServiceError(c, err, "user delete failed")
		return
	}
	response.Success(c, nil)
}
