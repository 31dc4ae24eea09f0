package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/franchise-next/internal/http/response"
	"github.com/franchise-next/internal/repository"

	"github.com/gin-gonic/gin"
)

func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// GetAuditLogs 获取审计日志列表
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page, pageSize := parsePagination(c)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	logs, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		EntityType:  c.Query("entity_type"),
		EntityID:    parseUintQuery(c, "entity_id"),
		Action:      c.Query("action"),
		ChangedBy:   parseUintQuery(c, "changed_by"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "audit log fetch failed", err)
		return
	}

	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

// GetEntityHistory 获取单个实体的变更历史（旧在前）
func (h *Handler) GetEntityHistory(c *gin.Context) {
	entityType := strings.TrimSpace(c.Param("entity_type"))
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if entityType == "" || err != nil || entityID == 0 {
		respondError(c, response.CodeBadRequest, "invalid request", nil)
		return
	}

	logs, err := h.AuditService.History(entityType, uint(entityID))
	if err != nil {
		respondError(c, response.CodeInternal, "audit log fetch failed", err)
		return
	}
	response.Success(c, logs)
}
