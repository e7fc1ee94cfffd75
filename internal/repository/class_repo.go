package repository

import (
	"context"

	"gorm.io/gorm"

	"uniclass/backend/internal/model"
	pkgerrors "uniclass/backend/pkg/errors"
)

// ClassFilter 班级列表筛选条件（空值表示不筛选）
type ClassFilter struct {
	CourseID     string
	InstructorID string
}

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	// ListByInstructor 教师名下全部班级（冲突检测的比较对象）
	ListByInstructor(ctx context.Context, instructorID string) ([]model.Class, error)
	List(ctx context.Context, filter ClassFilter, offset, limit int) ([]model.Class, int64, error)
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	Update(ctx context.Context, class *model.Class) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Instructor").
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("instructor_id = ?", instructorID).
		Order("created_at ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) List(ctx context.Context, filter ClassFilter, offset, limit int) ([]model.Class, int64, error) {
	var classes []model.Class
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Class{})
	if filter.CourseID != "" {
		db = db.Where("course_id = ?", filter.CourseID)
	}
	if filter.InstructorID != "" {
		db = db.Where("instructor_id = ?", filter.InstructorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Course").Preload("Instructor").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&classes).Error; err != nil {
		return nil, 0, err
	}

	return classes, total, nil
}

func (r *classRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

func (r *classRepo) Update(ctx context.Context, class *model.Class) error {
	oldVersion := class.Version
	result := r.db.WithContext(ctx).
		Model(class).
		Where("class_id = ? AND version = ?", class.ClassID, oldVersion).
		Updates(map[string]interface{}{
			"course_id":     class.CourseID,
			"instructor_id": class.InstructorID,
			"section":       class.Section,
			"days":          class.Days,
			"start_time":    class.StartTime,
			"end_time":      class.EndTime,
			"start_date":    class.StartDate,
			"end_date":      class.EndDate,
			"updated_by":    class.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	class.Version = oldVersion + 1
	return nil
}

func (r *classRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Class{}).
		Where("class_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
