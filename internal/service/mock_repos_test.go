package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"uniclass/backend/internal/model"
	"uniclass/backend/internal/repository"
	pkgerrors "uniclass/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Login
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses  map[string]*model.Course
	seq      int
	writeErr error // 非空时 Create/Update 直接返回，模拟唯一索引冲突等写入失败
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if course.CourseID == "" {
		m.seq++
		course.CourseID = fmt.Sprintf("course-%d", m.seq)
	}
	course.Version = 1
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByCode(_ context.Context, code string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.Code == code {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := m.courses[id]; ok {
			n++
		}
	}
	return n, nil
}

func (m *mockCourseRepo) List(_ context.Context, _ string, _, _ int) ([]model.Course, int64, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	cur, ok := m.courses[course.CourseID]
	if !ok || cur.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version++
	cp := *course
	m.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes map[string]*model.Class
	courses *mockCourseRepo
	seq     int
}

func newMockClassRepo(courses *mockCourseRepo) *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class), courses: courses}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if class.ClassID == "" {
		m.seq++
		class.ClassID = fmt.Sprintf("class-%d", m.seq)
	}
	class.Version = 1
	cp := *class
	m.classes[class.ClassID] = &cp
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		cp := *c
		cp.Course = m.courses.courses[c.CourseID]
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		if c.InstructorID == instructorID {
			cp := *c
			cp.Course = m.courses.courses[c.CourseID]
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClassID < result[j].ClassID })
	return result, nil
}

func (m *mockClassRepo) List(_ context.Context, filter repository.ClassFilter, _, _ int) ([]model.Class, int64, error) {
	var result []model.Class
	for _, c := range m.classes {
		if filter.CourseID != "" && c.CourseID != filter.CourseID {
			continue
		}
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (m *mockClassRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var n int64
	for _, c := range m.classes {
		if c.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	cur, ok := m.classes[class.ClassID]
	if !ok || cur.Version != class.Version {
		return pkgerrors.ErrOptimisticLock
	}
	class.Version++
	cp := *class
	m.classes[class.ClassID] = &cp
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.classes, id)
	return nil
}

// ── 测试用 Repository 聚合 ──

type mockRepos struct {
	users   *mockUserRepo
	courses *mockCourseRepo
	classes *mockClassRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{users: newMockUserRepo(), courses: newMockCourseRepo()}
	m.classes = newMockClassRepo(m.courses)
	return &repository.Repository{
		User:   m.users,
		Course: m.courses,
		Class:  m.classes,
	}, m
}
