package scheduling

import (
	"fmt"
	"strings"
)

// CourseRef 与候选课程编码相同的已有课程
type CourseRef struct {
	ID   string
	Code string
}

// NormalizeCourseCode 去除首尾空白；编码比较区分大小写
func NormalizeCourseCode(code string) string {
	return strings.TrimSpace(code)
}

// CheckCourseCode 课程编码唯一性：siblings 中存在编码相同且 ID 不同的课程即失败。
// selfID 为空表示新建课程。
func CheckCourseCode(code, selfID string, siblings []CourseRef) Failures {
	var failures Failures
	code = NormalizeCourseCode(code)
	if code == "" {
		return failures
	}
	for _, s := range siblings {
		if NormalizeCourseCode(s.Code) != code || s.ID == selfID {
			continue
		}
		return DuplicateCourseCodeFailure(code)
	}
	return failures
}

// DuplicateCourseCodeFailure 编码冲突的失败项；
// 数据库唯一索引拦下并发写入时，调用方直接用它报告，无需再比较 ID。
func DuplicateCourseCodeFailure(code string) Failures {
	var failures Failures
	failures.add(DuplicateCourseCode, FieldCourseCode,
		fmt.Sprintf("课程编码 %s 已被其他课程使用", NormalizeCourseCode(code)))
	return failures
}
