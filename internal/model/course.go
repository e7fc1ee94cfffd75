package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code          string      `gorm:"type:varchar(32);not null"                      json:"code"`
	Title         string      `gorm:"type:varchar(200);not null"                     json:"title"`
	NumCredits    int         `gorm:"type:smallint;not null;default:0"               json:"num_credits"`
	Prerequisites StringArray `gorm:"type:text[];not null;default:'{}'"              json:"prerequisites"` // 先修课程 ID
	VersionedModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
