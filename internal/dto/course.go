package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code          string   `json:"code"          binding:"required,max=32"`
	Title         string   `json:"title"         binding:"required,min=2,max=200"`
	NumCredits    int      `json:"num_credits"   binding:"min=0,max=30"`
	Prerequisites []string `json:"prerequisites" binding:"omitempty,dive,uuid"`
}

// UpdateCourseRequest 更新课程请求（字段为 nil 表示不修改）
type UpdateCourseRequest struct {
	Code          *string  `json:"code"          binding:"omitempty,max=32"`
	Title         *string  `json:"title"         binding:"omitempty,min=2,max=200"`
	NumCredits    *int     `json:"num_credits"   binding:"omitempty,min=0,max=30"`
	Prerequisites []string `json:"prerequisites" binding:"omitempty,dive,uuid"`
	Version       int      `json:"version"       binding:"required,min=1"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID            string   `json:"id"`
	Code          string   `json:"code"`
	Title         string   `json:"title"`
	NumCredits    int      `json:"num_credits"`
	Prerequisites []string `json:"prerequisites"`
	Version       int      `json:"version"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// CourseBrief 课程简要信息（嵌入班级响应）
type CourseBrief struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}
