package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uniclass/backend/internal/service"
	pkgerrors "uniclass/backend/pkg/errors"
	"uniclass/backend/pkg/response"
)

// handleCommonError 处理跨模块通用错误，已写入响应时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	if ve, ok := service.AsValidationError(err); ok {
		response.Unprocessable(c, 10006, "数据校验未通过", service.ToValidationResponse(ve))
		return true
	}
	switch {
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10007, err.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权限操作")
	default:
		return false
	}
	return true
}
