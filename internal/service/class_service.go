package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uniclass/backend/internal/dto"
	"uniclass/backend/internal/model"
	"uniclass/backend/internal/repository"
	"uniclass/backend/internal/scheduling"
	pkgerrors "uniclass/backend/pkg/errors"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound      = errors.New("班级不存在")
	ErrInstructorNotFound = errors.New("教师不存在")
	ErrNotInstructor      = errors.New("该用户不是教师")
)

// ClassService 班级业务接口
//
// 所有写操作在保存前执行排课校验；校验未通过返回 *ValidationError。
// callerRole 为 instructor 时只能操作自己名下的班级。
type ClassService interface {
	Create(ctx context.Context, req *dto.ClassRequest, callerID, callerRole string) (*dto.ClassResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassResponse, error)
	List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID, callerRole string) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id string, callerID, callerRole string) error
	// Validate 只校验不保存，供前端表单实时提示
	Validate(ctx context.Context, req *dto.ValidateClassRequest, callerID, callerRole string) (*dto.ValidationResponse, error)
}

type classService struct {
	repo          *repository.Repository
	scheduleCheck bool
	logger        *zap.Logger
}

// NewClassService 创建 ClassService 实例。
// scheduleCheck 为 false 时跳过同教师冲突检测，其余字段校验照常执行。
func NewClassService(repo *repository.Repository, scheduleCheck bool, logger *zap.Logger) ClassService {
	return &classService{repo: repo, scheduleCheck: scheduleCheck, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.ClassRequest, callerID, callerRole string) (*dto.ClassResponse, error) {
	if !canManage(callerID, callerRole, req.InstructorID) {
		return nil, ErrNoPermission
	}

	course, err := s.getCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	cand, failures := buildCandidate(req, "")
	class := newClassModel(req, cand)
	class.CreatedBy = &callerID
	class.UpdatedBy = &callerID

	var instructor *model.User
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		instructor, err = s.check(ctx, tx, true, cand, failures)
		if err != nil {
			return err
		}
		return tx.Class.Create(ctx, class)
	})
	if err != nil {
		return nil, s.wrapWriteErr("创建班级失败", "", err)
	}

	class.Course = course
	class.Instructor = instructor
	s.logger.Info("班级已创建",
		zap.String("class_id", class.ClassID),
		zap.String("course", course.Code),
		zap.String("instructor_id", class.InstructorID),
	)
	return toClassResponse(class), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classService) GetByID(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

// ────────────────────── List ──────────────────────

func (s *classService) List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, int64, error) {
	filter := repository.ClassFilter{CourseID: req.CourseID, InstructorID: req.InstructorID}
	classes, total, err := s.repo.Class.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, *toClassResponse(&classes[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID, callerRole string) (*dto.ClassResponse, error) {
	existing, err := s.getClass(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	// 既不能改别人的班级，也不能把班级转给别人
	if !canManage(callerID, callerRole, existing.InstructorID) ||
		!canManage(callerID, callerRole, req.InstructorID) {
		return nil, ErrNoPermission
	}

	course, err := s.getCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	cand, failures := buildCandidate(&req.ClassRequest, id)
	class := newClassModel(&req.ClassRequest, cand)
	class.ClassID = id
	class.CreatedAt = existing.CreatedAt
	class.CreatedBy = existing.CreatedBy
	class.UpdatedBy = &callerID
	class.Version = req.Version

	var instructor *model.User
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		instructor, err = s.check(ctx, tx, true, cand, failures)
		if err != nil {
			return err
		}
		return tx.Class.Update(ctx, class)
	})
	if err != nil {
		return nil, s.wrapWriteErr("更新班级失败", id, err)
	}

	class.Course = course
	class.Instructor = instructor
	return toClassResponse(class), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classService) Delete(ctx context.Context, id string, callerID, callerRole string) error {
	class, err := s.getClass(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if !canManage(callerID, callerRole, class.InstructorID) {
		return ErrNoPermission
	}

	if err := s.repo.Class.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除班级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Validate ──────────────────────

func (s *classService) Validate(ctx context.Context, req *dto.ValidateClassRequest, callerID, callerRole string) (*dto.ValidationResponse, error) {
	if !canManage(callerID, callerRole, req.InstructorID) {
		return nil, ErrNoPermission
	}
	if req.ClassID != "" {
		existing, err := s.getClass(ctx, s.repo, req.ClassID)
		if err != nil {
			return nil, err
		}
		if !canManage(callerID, callerRole, existing.InstructorID) {
			return nil, ErrNoPermission
		}
	}

	cand, failures := buildCandidate(&req.ClassRequest, req.ClassID)
	if _, err := s.check(ctx, s.repo, false, cand, failures); err != nil {
		if ve, ok := AsValidationError(err); ok {
			return toValidationResponse(ve.Failures), nil
		}
		return nil, err
	}
	return toValidationResponse(nil), nil
}

// ── 内部辅助方法 ──

// check 校验教师身份并执行排课规则。
// lock 为 true 时对教师行加锁，使同一教师的并发保存串行化。
func (s *classService) check(
	ctx context.Context,
	repo *repository.Repository,
	lock bool,
	cand scheduling.CandidateClass,
	pre scheduling.Failures,
) (*model.User, error) {
	var (
		instructor *model.User
		err        error
	)
	if lock {
		instructor, err = repo.User.GetByIDForUpdate(ctx, cand.InstructorID)
	} else {
		instructor, err = repo.User.GetByID(ctx, cand.InstructorID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	if !instructor.IsInstructor() {
		return nil, ErrNotInstructor
	}

	var others []scheduling.ExistingClass
	if s.scheduleCheck {
		classes, err := repo.Class.ListByInstructor(ctx, cand.InstructorID)
		if err != nil {
			return nil, err
		}
		others = make([]scheduling.ExistingClass, 0, len(classes))
		for i := range classes {
			others = append(others, toExisting(&classes[i]))
		}
	}

	failures := append(pre, dropDayMembership(pre, scheduling.Validate(cand, others))...)
	if len(failures) > 0 {
		return nil, &ValidationError{Failures: failures}
	}
	return instructor, nil
}

// dropDayMembership 上课日本身已无效时，起止日期是否落在上课日上无从判断，不再重复报告
func dropDayMembership(pre, failures scheduling.Failures) scheduling.Failures {
	daysInvalid := false
	for _, f := range pre {
		if f.Field == scheduling.FieldDays {
			daysInvalid = true
			break
		}
	}
	if !daysInvalid {
		return failures
	}
	kept := make(scheduling.Failures, 0, len(failures))
	for _, f := range failures {
		if f.Kind == scheduling.StartDateNotOnSelectedDay || f.Kind == scheduling.EndDateNotOnSelectedDay {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func (s *classService) wrapWriteErr(msg, id string, err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrValidationFailed),
		errors.Is(err, pkgerrors.ErrOptimisticLock),
		errors.Is(err, ErrInstructorNotFound),
		errors.Is(err, ErrNotInstructor):
		return err
	}
	s.logger.Error(msg, zap.String("id", id), zap.Error(err))
	return err
}

func (s *classService) getClass(ctx context.Context, repo *repository.Repository, id string) (*model.Class, error) {
	class, err := repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return class, nil
}

func (s *classService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// canManage 管理员可操作任意班级，教师只能操作自己的班级
func canManage(callerID, callerRole, instructorID string) bool {
	switch callerRole {
	case model.RoleAdmin:
		return true
	case model.RoleInstructor:
		return callerID == instructorID
	}
	return false
}

// buildCandidate 将请求转换为待校验班级。
// 绑定层已校验格式，这里解析失败只可能来自绕过绑定的调用，记为 invalid_interval。
func buildCandidate(req *dto.ClassRequest, excludeID string) (scheduling.CandidateClass, scheduling.Failures) {
	var failures scheduling.Failures
	invalid := func(field scheduling.Field, msg string) {
		failures = append(failures, scheduling.ValidationFailure{
			Kind:    scheduling.InvalidInterval,
			Field:   field,
			Message: msg,
		})
	}

	cand := scheduling.CandidateClass{
		InstructorID:   req.InstructorID,
		ExcludeClassID: excludeID,
	}

	days, err := scheduling.ParseWeekdays(req.Days)
	if err != nil {
		invalid(scheduling.FieldDays, "上课日无效")
	}
	cand.Days = days

	if req.StartTime != "" {
		if t, err := scheduling.ParseTimeOfDay(req.StartTime); err == nil {
			cand.StartTime = &t
		} else {
			invalid(scheduling.FieldStartTime, "开始时间格式无效")
		}
	}
	if req.EndTime != "" {
		if t, err := scheduling.ParseTimeOfDay(req.EndTime); err == nil {
			cand.EndTime = &t
		} else {
			invalid(scheduling.FieldEndTime, "结束时间格式无效")
		}
	}
	if req.StartDate != "" {
		if d, err := scheduling.ParseDate(req.StartDate); err == nil {
			cand.StartDate = &d
		} else {
			invalid(scheduling.FieldStartDate, "开始日期格式无效")
		}
	}
	if req.EndDate != "" {
		if d, err := scheduling.ParseDate(req.EndDate); err == nil {
			cand.EndDate = &d
		} else {
			invalid(scheduling.FieldEndDate, "结束日期格式无效")
		}
	}

	return cand, failures
}

func newClassModel(req *dto.ClassRequest, cand scheduling.CandidateClass) *model.Class {
	class := &model.Class{
		CourseID:     req.CourseID,
		InstructorID: req.InstructorID,
		Section:      req.Section,
		Days:         model.IntArray(cand.Days.Ints()),
	}
	if cand.StartTime != nil {
		v := cand.StartTime.String()
		class.StartTime = &v
	}
	if cand.EndTime != nil {
		v := cand.EndTime.String()
		class.EndTime = &v
	}
	if cand.StartDate != nil {
		v := cand.StartDate.Time()
		class.StartDate = &v
	}
	if cand.EndDate != nil {
		v := cand.EndDate.Time()
		class.EndDate = &v
	}
	return class
}

// toExisting 转换为冲突检测的比较对象，保留数据库原始值
func toExisting(c *model.Class) scheduling.ExistingClass {
	e := scheduling.ExistingClass{
		ClassID:      c.ClassID,
		InstructorID: c.InstructorID,
		Days:         []int(c.Days),
	}
	if c.StartTime != nil {
		e.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		e.EndTime = *c.EndTime
	}
	if c.Course != nil {
		e.Label = c.Course.Code
		if c.Section != "" {
			e.Label += "-" + c.Section
		}
	}
	return e
}

func toValidationResponse(failures scheduling.Failures) *dto.ValidationResponse {
	resp := &dto.ValidationResponse{
		Valid:    len(failures) == 0,
		Failures: make([]dto.FailureResponse, 0, len(failures)),
	}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, dto.FailureResponse{
			Kind:            string(f.Kind),
			Message:         f.Message,
			Field:           string(f.Field),
			ConflictClassID: f.ConflictClassID,
		})
	}
	return resp
}

// ToValidationResponse 供 handler 将 ValidationError 转为响应体
func ToValidationResponse(err *ValidationError) *dto.ValidationResponse {
	return toValidationResponse(err.Failures)
}

func toClassResponse(c *model.Class) *dto.ClassResponse {
	days := []int(c.Days)
	if days == nil {
		days = []int{}
	}
	resp := &dto.ClassResponse{
		ID:        c.ClassID,
		CourseID:  c.CourseID,
		Section:   c.Section,
		Days:      days,
		StartTime: clockText(c.StartTime),
		EndTime:   clockText(c.EndTime),
		StartDate: dateText(c.StartDate),
		EndDate:   dateText(c.EndDate),
		Version:   c.Version,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	// 历史数据中非法的星期不参与标签
	if set, err := scheduling.ParseWeekdays(days); err == nil {
		resp.DaysLabel = set.Label()
	}
	if c.Course != nil {
		resp.Course = &dto.CourseBrief{ID: c.Course.CourseID, Code: c.Course.Code, Title: c.Course.Title}
	}
	if c.Instructor != nil {
		resp.Instructor = &dto.UserBrief{ID: c.Instructor.UserID, Name: c.Instructor.Name}
	}
	return resp
}

// clockText 数据库返回 HH:MM:SS，统一输出 HH:MM
func clockText(v *string) string {
	if v == nil {
		return ""
	}
	if t, err := scheduling.ParseTimeOfDay(*v); err == nil {
		return t.String()
	}
	return *v
}

func dateText(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}
