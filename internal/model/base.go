package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL 数组列 ──

// IntArray 对应 PostgreSQL INT[] 类型，实现 GORM Scanner/Valuer 接口。
type IntArray []int

// Scan 将 PostgreSQL 返回的 {1,2,3} 文本解析为 []int。
func (a *IntArray) Scan(src interface{}) error {
	parts, err := scanArrayText("IntArray", src)
	if err != nil || parts == nil {
		*a = nil
		return err
	}
	arr := make(IntArray, 0, len(parts))
	for _, p := range parts {
		// 数组元素为 NULL 时记为 0（非法星期），由上层按无效上课日处理
		if strings.EqualFold(p, "NULL") {
			arr = append(arr, 0)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("IntArray.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, n)
	}
	*a = arr
	return nil
}

// Value 将 []int 序列化为 PostgreSQL {1,2,3} 文本。
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// StringArray 对应 PostgreSQL TEXT[]，仅用于存放 UUID 等不含逗号与引号的值。
type StringArray []string

// Scan 解析 {a,b} 文本
func (a *StringArray) Scan(src interface{}) error {
	parts, err := scanArrayText("StringArray", src)
	if err != nil || parts == nil {
		*a = nil
		return err
	}
	arr := make(StringArray, len(parts))
	for i, p := range parts {
		arr[i] = strings.Trim(p, `"`)
	}
	*a = arr
	return nil
}

// Value 序列化为 {a,b} 文本
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// scanArrayText 拆分数组文本；src 为 NULL 时返回 nil
func scanArrayText(typ string, src interface{}) ([]string, error) {
	var s string
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return nil, fmt.Errorf("%s.Scan: unsupported type %T", typ, src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		return []string{}, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
