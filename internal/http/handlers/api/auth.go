package api

import (
	"errors"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// Login 员工登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	if h.CaptchaService != nil && h.CaptchaService.Enabled() {
		if req.CaptchaID == "" || req.CaptchaCode == "" {
			respondError(c, response.CodeBadRequest, "captcha is required", nil)
			return
		}
		if captchaErr := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); captchaErr != nil {
			respondServiceError(c, captchaErr, "captcha verification failed")
			return
		}
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
			return
		}
		if errors.Is(err, service.ErrUserLocked) {
			respondError(c, response.CodeUnauthorized, "account is locked", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}

	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":           user.ID,
			"email":        user.Email,
			"full_name":    user.FullName,
			"role":         user.Role,
			"franchise_id": user.FranchiseID,
		},
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetCaptchaImage 获取图片验证码
func (h *Handler) GetCaptchaImage(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		respondError(c, response.CodeBadRequest, "captcha is disabled", nil)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "captcha generation failed", err)
		return
	}
	response.Success(c, challenge)
}

// Me 获取当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserService.Get(id)
	if err != nil {
		respondServiceError(c, err, "user fetch failed")
		return
	}
	response.Success(c, user)
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdatePassword 修改当前用户密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeBadRequest, "old password does not match", nil)
			return
		}
		respondServiceError(c, err, "password update failed")
		return
	}

	response.Success(c, nil)
}
