package service

import "errors"

// 业务层哨兵错误，handler 据此映射响应码
var (
	ErrNotFound           = errors.New("record not found")
	ErrItemExists         = errors.New("record already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserLocked         = errors.New("user is locked")
	ErrInsufficientStock  = errors.New("insufficient available stock")
	ErrInsufficientHold   = errors.New("insufficient reserved stock")
	ErrInvalidAdjustment  = errors.New("invalid stock adjustment")
	ErrInventoryReserved  = errors.New("inventory still has reserved stock")
	ErrPriceOutOfRange    = errors.New("price outside allowed range")
	ErrCategoryInUse      = errors.New("category still has products")
	ErrProductInUse       = errors.New("product still listed in franchises")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCaptchaInvalid     = errors.New("captcha verification failed")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaDisabled    = errors.New("captcha disabled")
)
