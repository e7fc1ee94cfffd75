package scheduling

import "fmt"

// CandidateClass 待保存的班级（新建或编辑）。指针字段为 nil 表示未填写。
type CandidateClass struct {
	InstructorID string
	Days         WeekdaySet
	StartTime    *TimeOfDay
	EndTime      *TimeOfDay
	StartDate    *Date
	EndDate      *Date
	// ExcludeClassID 编辑时为自身 ID，避免与自己的旧版本冲突
	ExcludeClassID string
}

// ExistingClass 同一教师名下已存储的班级。
// 字段保持原始形态：历史数据可能缺失或格式错误，校验时跳过而不是报错。
type ExistingClass struct {
	ClassID      string
	InstructorID string
	Label        string
	Days         []int
	StartTime    string
	EndTime      string
}

// Validate 对候选班级执行全部时间一致性与冲突检查。
// 每个检查相互独立，失败按检查顺序追加；只有日期缺失、星期缺失会跳过其后的检查。
// 课程编码唯一性属于课程而非班级，见 CheckCourseCode，课程保存时同样以 Failures 报告。
func Validate(c CandidateClass, others []ExistingClass) Failures {
	var failures Failures

	// 1. 结束时间须晚于开始时间
	timeOrderFailed := false
	if c.StartTime != nil && (c.EndTime == nil || !c.StartTime.Before(*c.EndTime)) {
		failures.add(EndTimeNotAfterStart, FieldEndTime, "结束时间必须晚于开始时间")
		timeOrderFailed = true
	}

	// 2. 日期为选填，缺任一则不做日期/星期检查
	if c.StartDate == nil || c.EndDate == nil {
		return failures
	}

	// 3. 结束日期须晚于开始日期
	if !c.StartDate.Before(*c.EndDate) {
		failures.add(EndDateNotAfterStart, FieldEndDate, "结束日期必须晚于开始日期")
	}

	// 4. 起止日期必须落在所选星期上
	if wd := c.StartDate.Weekday(); !c.Days.Contains(wd) {
		failures.add(StartDateNotOnSelectedDay, FieldStartDate,
			fmt.Sprintf("开始日期 %s 是%s，不在所选上课日中", c.StartDate, wd.Abbrev()))
	}
	if wd := c.EndDate.Weekday(); !c.Days.Contains(wd) {
		failures.add(EndDateNotOnSelectedDay, FieldEndDate,
			fmt.Sprintf("结束日期 %s 是%s，不在所选上课日中", c.EndDate, wd.Abbrev()))
	}

	// 5. 未选星期则无从比较
	if len(c.Days) == 0 || c.StartTime == nil || c.EndTime == nil {
		return failures
	}

	// 6. 与同一教师其他班级的冲突检测
	mine, err := Expand(c.Days, *c.StartTime, *c.EndTime)
	if err != nil {
		if !timeOrderFailed {
			failures.add(InvalidInterval, FieldStartTime, "上课时间区间无效")
		}
		return failures
	}

	for _, other := range others {
		if c.ExcludeClassID != "" && other.ClassID == c.ExcludeClassID {
			continue
		}
		theirs, ok := intervalsOf(other)
		if !ok {
			continue
		}
		if a, b, hit := firstOverlap(mine, theirs); hit {
			failures = append(failures, ValidationFailure{
				Kind:            ScheduleOverlap,
				Field:           FieldStartTime,
				ConflictClassID: other.ClassID,
				Message: fmt.Sprintf("与该教师的班级 %s 时间冲突：%s 与 %s",
					other.displayName(), a, b),
			})
			// 有一处冲突即足以阻止保存
			return failures
		}
	}

	return failures
}

// intervalsOf 将已存储班级展开为区间；数据不完整时返回 false
func intervalsOf(e ExistingClass) ([]ClassInterval, bool) {
	if len(e.Days) == 0 {
		return nil, false
	}
	days, err := ParseWeekdays(e.Days)
	if err != nil {
		return nil, false
	}
	start, err := ParseTimeOfDay(e.StartTime)
	if err != nil {
		return nil, false
	}
	end, err := ParseTimeOfDay(e.EndTime)
	if err != nil {
		return nil, false
	}
	intervals, err := Expand(days, start, end)
	if err != nil {
		return nil, false
	}
	return intervals, true
}

func firstOverlap(mine, theirs []ClassInterval) (ClassInterval, ClassInterval, bool) {
	for _, a := range mine {
		for _, b := range theirs {
			if a.Overlaps(b) {
				return a, b, true
			}
		}
	}
	return ClassInterval{}, ClassInterval{}, false
}

func (e ExistingClass) displayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ClassID
}
