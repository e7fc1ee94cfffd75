package scheduling

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval 区间的开始时间不早于结束时间，或星期非法
var ErrInvalidInterval = errors.New("无效的上课时间区间")

// ClassInterval 每周重复的上课时段：某个星期的 [Start, End)
type ClassInterval struct {
	Weekday Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// NewClassInterval 构造区间，要求 start < end
func NewClassInterval(day Weekday, start, end TimeOfDay) (ClassInterval, error) {
	if !day.Valid() {
		return ClassInterval{}, fmt.Errorf("%w: %w", ErrInvalidInterval, ErrInvalidWeekday)
	}
	if !start.Before(end) {
		return ClassInterval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return ClassInterval{Weekday: day, Start: start, End: end}, nil
}

// Overlaps 同一星期且时间段相交即为冲突。
// 半开区间：首尾相接（09:00-10:00 与 10:00-11:00）不算冲突。
func (c ClassInterval) Overlaps(other ClassInterval) bool {
	if c.Weekday != other.Weekday {
		return false
	}
	return c.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < c.End.Minutes()
}

func (c ClassInterval) String() string {
	return fmt.Sprintf("%s %s-%s", c.Weekday.Abbrev(), c.Start, c.End)
}

// Expand 将"星期集合 + 时段"展开为每个星期一个区间
func Expand(days WeekdaySet, start, end TimeOfDay) ([]ClassInterval, error) {
	intervals := make([]ClassInterval, 0, len(days))
	for _, d := range days {
		iv, err := NewClassInterval(d, start, end)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}
