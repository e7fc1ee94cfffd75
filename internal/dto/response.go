package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 校验失败 ──

// FailureResponse 单条校验失败，field 供前端定位表单字段
type FailureResponse struct {
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	Field           string `json:"field"`
	ConflictClassID string `json:"conflict_class_id,omitempty"`
}

// ValidationResponse 校验结果（dry-run 接口与 422 响应共用）
type ValidationResponse struct {
	Valid    bool              `json:"valid"`
	Failures []FailureResponse `json:"failures"`
}
