package api

import (
	"github.com/franchise-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		respondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "invalid context value", nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "invalid context value", nil)
			return 0, false
		}
		return uint(v), true
	default:
		respondError(c, response.CodeInternal, "invalid context value type", nil)
		return 0, false
	}
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUint(c, "user_id")
}

func getUserRole(c *gin.Context) string {
	if value, exists := c.Get("user_role"); exists {
		if role, ok := value.(string); ok {
			return role
		}
	}
	return ""
}

// getFranchiseID 读取当前用户绑定的门店 ID；系统管理员无绑定时返回 0。
func getFranchiseID(c *gin.Context) uint {
	if value, exists := c.Get("franchise_id"); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

func getRequestID(c *gin.Context) string {
	if value, exists := c.Get("request_id"); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
