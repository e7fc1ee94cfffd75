package model

import "time"

// Class 班级（课程的一个教学班）表 — 对应 classes
// 时间与日期均为选填；历史数据中可能存在缺失或无效的值
type Class struct {
	ClassID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"class_id"`
	CourseID     string     `gorm:"type:uuid;not null"                             json:"course_id"`
	InstructorID string     `gorm:"type:uuid;not null"                             json:"instructor_id"`
	Section      string     `gorm:"type:varchar(32);not null;default:''"           json:"section"`
	Days         IntArray   `gorm:"type:int[];not null;default:'{}'"               json:"days"` // ISO 星期 1-7
	StartTime    *string    `gorm:"type:time"                                      json:"start_time,omitempty"`
	EndTime      *string    `gorm:"type:time"                                      json:"end_time,omitempty"`
	StartDate    *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	VersionedModel

	// 关联
	Course     *Course `gorm:"foreignKey:CourseID;references:CourseID"         json:"course,omitempty"`
	Instructor *User   `gorm:"foreignKey:InstructorID;references:UserID"       json:"instructor,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }
