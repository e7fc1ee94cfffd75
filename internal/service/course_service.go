package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniclass/backend/internal/dto"
	"uniclass/backend/internal/model"
	"uniclass/backend/internal/repository"
	"uniclass/backend/internal/scheduling"
	pkgerrors "uniclass/backend/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound       = errors.New("课程不存在")
	ErrCourseInUse          = errors.New("课程下仍有班级，无法删除")
	ErrPrerequisiteNotFound = errors.New("先修课程不存在")
	ErrSelfPrerequisite     = errors.New("课程不能以自身为先修课程")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	code := scheduling.NormalizeCourseCode(req.Code)

	if err := s.checkCode(ctx, code, ""); err != nil {
		return nil, err
	}
	prereqs := dedupe(req.Prerequisites)
	if err := s.checkPrerequisites(ctx, "", prereqs); err != nil {
		return nil, err
	}

	course := &model.Course{
		Code:          code,
		Title:         req.Title,
		NumCredits:    req.NumCredits,
		Prerequisites: model.StringArray(prereqs),
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		// 并发写入时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Failures: scheduling.DuplicateCourseCodeFailure(code)}
		}
		s.logger.Error("创建课程失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程已创建", zap.String("course_id", course.CourseID), zap.String("code", code))
	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	courses, total, err := s.repo.Course.List(ctx, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := scheduling.NormalizeCourseCode(*req.Code)
		if err := s.checkCode(ctx, code, course.CourseID); err != nil {
			return nil, err
		}
		course.Code = code
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.NumCredits != nil {
		course.NumCredits = *req.NumCredits
	}
	if req.Prerequisites != nil {
		prereqs := dedupe(req.Prerequisites)
		if err := s.checkPrerequisites(ctx, course.CourseID, prereqs); err != nil {
			return nil, err
		}
		course.Prerequisites = model.StringArray(prereqs)
	}

	course.Version = req.Version
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Failures: scheduling.DuplicateCourseCodeFailure(course.Code)}
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getCourse(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.Class.CountByCourse(ctx, id)
	if err != nil {
		s.logger.Error("统计课程班级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrCourseInUse
	}

	if err := s.repo.Course.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// checkCode 查询同编码课程并执行唯一性校验
func (s *courseService) checkCode(ctx context.Context, code, selfID string) error {
	siblings, err := s.repo.Course.ListByCode(ctx, code)
	if err != nil {
		s.logger.Error("按编码查询课程失败", zap.String("code", code), zap.Error(err))
		return err
	}

	refs := make([]scheduling.CourseRef, 0, len(siblings))
	for _, c := range siblings {
		refs = append(refs, scheduling.CourseRef{ID: c.CourseID, Code: c.Code})
	}

	if failures := scheduling.CheckCourseCode(code, selfID, refs); len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}
	return nil
}

func (s *courseService) checkPrerequisites(ctx context.Context, selfID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if id == selfID {
			return ErrSelfPrerequisite
		}
	}
	n, err := s.repo.Course.CountByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("校验先修课程失败", zap.Error(err))
		return err
	}
	if n != int64(len(ids)) {
		return ErrPrerequisiteNotFound
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	prereqs := []string(c.Prerequisites)
	if prereqs == nil {
		prereqs = []string{}
	}
	return &dto.CourseResponse{
		ID:            c.CourseID,
		Code:          c.Code,
		Title:         c.Title,
		NumCredits:    c.NumCredits,
		Prerequisites: prereqs,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
