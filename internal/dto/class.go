package dto

// ── 班级模块 DTO ──

// ClassRequest 创建/更新/预校验班级的请求体。
// 时间、日期为选填；格式由 hhmm / isodate 校验标签保证，跨字段规则由业务层校验。
type ClassRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	Section      string `json:"section"       binding:"omitempty,max=32"`
	Days         []int  `json:"days"          binding:"omitempty,max=7,dive,isoweekday"`
	StartTime    string `json:"start_time"    binding:"omitempty,hhmm"`
	EndTime      string `json:"end_time"      binding:"omitempty,hhmm"`
	StartDate    string `json:"start_date"    binding:"omitempty,isodate"`
	EndDate      string `json:"end_date"      binding:"omitempty,isodate"`
}

// UpdateClassRequest 更新班级请求（全量替换 + 乐观锁版本号）
type UpdateClassRequest struct {
	ClassRequest
	Version int `json:"version" binding:"required,min=1"`
}

// ValidateClassRequest 预校验请求；ClassID 非空表示编辑已有班级
type ValidateClassRequest struct {
	ClassRequest
	ClassID string `json:"class_id" binding:"omitempty,uuid"`
}

// ClassListRequest 班级列表查询参数
type ClassListRequest struct {
	PaginationRequest
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
}

// ClassResponse 班级信息响应
type ClassResponse struct {
	ID         string       `json:"id"`
	CourseID   string       `json:"course_id"`
	Course     *CourseBrief `json:"course,omitempty"`
	Instructor *UserBrief   `json:"instructor,omitempty"`
	Section    string       `json:"section"`
	Days       []int        `json:"days"`
	DaysLabel  string       `json:"days_label"` // 如 "Mon/Wed"
	StartTime  string       `json:"start_time,omitempty"`
	EndTime    string       `json:"end_time,omitempty"`
	StartDate  string       `json:"start_date,omitempty"`
	EndDate    string       `json:"end_date,omitempty"`
	Version    int          `json:"version"`
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
}
