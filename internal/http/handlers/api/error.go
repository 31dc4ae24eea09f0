package api

import (
	"errors"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/logger"
	"github.com/franchise-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog 提供携带 request_id 的日志实例。
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError 返回错误响应，并在有原始错误时记录日志。
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// respondServiceError 按服务层哨兵错误映射响应码；未识别的错误按内部错误处理。
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "resource not found", nil)
	case errors.Is(err, service.ErrItemExists):
		respondError(c, response.CodeConflict, "resource already exists", nil)
	case errors.Is(err, service.ErrCategoryInUse):
		respondError(c, response.CodeConflict, "category still has products", nil)
	case errors.Is(err, service.ErrProductInUse):
		respondError(c, response.CodeConflict, "product still has listings", nil)
	case errors.Is(err, service.ErrInventoryReserved):
		respondError(c, response.CodeConflict, "inventory still holds reservations", nil)
	case errors.Is(err, service.ErrInsufficientStock):
		respondError(c, response.CodeBadRequest, "insufficient available stock", nil)
	case errors.Is(err, service.ErrInsufficientHold):
		respondError(c, response.CodeBadRequest, "insufficient reserved stock", nil)
	case errors.Is(err, service.ErrInvalidAdjustment):
		respondError(c, response.CodeBadRequest, "invalid stock adjustment", nil)
	case errors.Is(err, service.ErrPriceOutOfRange):
		respondError(c, response.CodeBadRequest, "price outside product range", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "invalid request", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
	case errors.Is(err, service.ErrUserLocked):
		respondError(c, response.CodeUnauthorized, "account is locked", nil)
	case errors.Is(err, service.ErrCaptchaRequired):
		respondError(c, response.CodeBadRequest, "captcha is required", nil)
	case errors.Is(err, service.ErrCaptchaInvalid):
		respondError(c, response.CodeBadRequest, "captcha verification failed", nil)
	case errors.Is(err, service.ErrCaptchaDisabled):
		respondError(c, response.CodeBadRequest, "captcha is disabled", nil)
	case errors.Is(err, service.ErrPermissionDenied):
		respondError(c, response.CodeForbidden, "permission denied", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
