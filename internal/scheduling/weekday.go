// Package scheduling 班级排课校验核心
//
// 纯函数实现：不读数据库、不读请求上下文，所有兄弟记录由调用方查询后传入。
// 规则违反以 Failures 列表返回，而不是 error。
package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidWeekday 星期取值不在 1-7 范围内
var ErrInvalidWeekday = errors.New("星期取值必须在 1-7 之间")

// Weekday ISO 8601 星期：周一=1 … 周日=7
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayAbbrevs = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Valid 是否为合法星期
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Abbrev 星期缩写（仅用于展示）
func (d Weekday) Abbrev() string {
	if !d.Valid() {
		return "?"
	}
	return weekdayAbbrevs[d]
}

func (d Weekday) String() string { return d.Abbrev() }

// WeekdayOf 将 time.Weekday（周日=0）转换为 ISO 星期
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// WeekdaySet 去重且升序的星期集合
type WeekdaySet []Weekday

// ParseWeekdays 从整数列表构造星期集合，任何越界值都会导致失败
func ParseWeekdays(days []int) (WeekdaySet, error) {
	seen := make(map[Weekday]bool, len(days))
	set := make(WeekdaySet, 0, len(days))
	for _, n := range days {
		d := Weekday(n)
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, n)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		set = append(set, d)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set, nil
}

// Contains 集合是否包含指定星期
func (s WeekdaySet) Contains(d Weekday) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

// Ints 转回整数列表（持久化用）
func (s WeekdaySet) Ints() []int {
	out := make([]int, len(s))
	for i, d := range s {
		out[i] = int(d)
	}
	return out
}

// Label 形如 "Mon/Wed" 的展示文本
func (s WeekdaySet) Label() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.Abbrev()
	}
	return strings.Join(parts, "/")
}
