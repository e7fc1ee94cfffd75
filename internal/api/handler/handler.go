package handler

import "uniclass/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Instructor *InstructorHandler
	Course     *CourseHandler
	Class      *ClassHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Instructor: NewInstructorHandler(svc.User),
		Course:     NewCourseHandler(svc.Course),
		Class:      NewClassHandler(svc.Class),
	}
}
