package scheduling

import "strings"

// Field 失败项所绑定的表单字段标识（对核心而言只是标签）
type Field string

const (
	FieldStartTime  Field = "start_time"
	FieldEndTime    Field = "end_time"
	FieldStartDate  Field = "start_date"
	FieldEndDate    Field = "end_date"
	FieldDays       Field = "days"
	FieldCourseCode Field = "course_code"
)

// FailureKind 规则类型
type FailureKind string

const (
	EndTimeNotAfterStart      FailureKind = "end_time_not_after_start"
	EndDateNotAfterStart      FailureKind = "end_date_not_after_start"
	StartDateNotOnSelectedDay FailureKind = "start_date_not_on_selected_day"
	EndDateNotOnSelectedDay   FailureKind = "end_date_not_on_selected_day"
	ScheduleOverlap           FailureKind = "schedule_overlap"
	InvalidInterval           FailureKind = "invalid_interval"
	DuplicateCourseCode       FailureKind = "duplicate_course_code"
)

// ValidationFailure 一条规则违反
type ValidationFailure struct {
	Kind    FailureKind
	Message string
	Field   Field
	// ConflictClassID 仅 ScheduleOverlap 填写
	ConflictClassID string
}

// Failures 按检查顺序排列的失败列表；非空即表示不得保存
type Failures []ValidationFailure

// HasKind 是否包含指定类型的失败
func (f Failures) HasKind(kind FailureKind) bool {
	return f.Count(kind) > 0
}

// Count 指定类型的失败数量
func (f Failures) Count(kind FailureKind) int {
	n := 0
	for _, v := range f {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Error 拼接所有失败信息，便于日志输出
func (f Failures) Error() string {
	msgs := make([]string, len(f))
	for i, v := range f {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

func (f *Failures) add(kind FailureKind, field Field, msg string) {
	*f = append(*f, ValidationFailure{Kind: kind, Message: msg, Field: field})
}
