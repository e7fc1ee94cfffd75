package handler

import (
	"github.com/gin-gonic/gin"

	"uniclass/backend/internal/service"
	"uniclass/backend/pkg/response"
)

// InstructorHandler 教师列表（班级表单的下拉选项）
type InstructorHandler struct {
	userSvc service.UserService
}

// NewInstructorHandler 创建 InstructorHandler
func NewInstructorHandler(userSvc service.UserService) *InstructorHandler {
	return &InstructorHandler{userSvc: userSvc}
}

// ListInstructors GET /api/v1/instructors
func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	users, err := h.userSvc.ListInstructors(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": users})
}
