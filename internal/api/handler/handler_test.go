package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"uniclass/backend/internal/dto"
	"uniclass/backend/internal/scheduling"
	"uniclass/backend/internal/service"
	pkgerrors "uniclass/backend/pkg/errors"
	"uniclass/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	logoutErr        error
	logoutJTI        string
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}

// ── Mock CourseService ──

type mockCourseService struct {
	result *dto.CourseResponse
	list   []dto.CourseResponse
	total  int64
	err    error
}

func (m *mockCourseService) Create(_ context.Context, _ *dto.CreateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return m.result, m.err
}
func (m *mockCourseService) GetByID(_ context.Context, _ string) (*dto.CourseResponse, error) {
	return m.result, m.err
}
func (m *mockCourseService) List(_ context.Context, _ *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockCourseService) Update(_ context.Context, _ string, _ *dto.UpdateCourseRequest, _ string) (*dto.CourseResponse, error) {
	return m.result, m.err
}
func (m *mockCourseService) Delete(_ context.Context, _ string, _ string) error {
	return m.err
}

// ── Mock ClassService ──

type mockClassService struct {
	result         *dto.ClassResponse
	list           []dto.ClassResponse
	total          int64
	validateResult *dto.ValidationResponse
	err            error
	gotRole        string
}

func (m *mockClassService) Create(_ context.Context, _ *dto.ClassRequest, _, role string) (*dto.ClassResponse, error) {
	m.gotRole = role
	return m.result, m.err
}
func (m *mockClassService) GetByID(_ context.Context, _ string) (*dto.ClassResponse, error) {
	return m.result, m.err
}
func (m *mockClassService) List(_ context.Context, _ *dto.ClassListRequest) ([]dto.ClassResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockClassService) Update(_ context.Context, _ string, _ *dto.UpdateClassRequest, _, role string) (*dto.ClassResponse, error) {
	m.gotRole = role
	return m.result, m.err
}
func (m *mockClassService) Delete(_ context.Context, _ string, _, _ string) error {
	return m.err
}
func (m *mockClassService) Validate(_ context.Context, _ *dto.ValidateClassRequest, _, _ string) (*dto.ValidationResponse, error) {
	return m.validateResult, m.err
}

// ── Mock UserService ──

type mockUserService struct {
	list []dto.UserResponse
	err  error
}

func (m *mockUserService) ListInstructors(_ context.Context) ([]dto.UserResponse, error) {
	return m.list, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const (
	testCourseID     = "6f1c2b7e-3a52-4c1e-9d0b-1f7d0d3c9a01"
	testInstructorID = "0b8a4d2e-5c61-4f3a-8e7d-2a9c6b1e4f02"
)

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve 注册单个路由并执行请求；authed 为 true 时注入认证信息
func serve(method, route, target string, body io.Reader, authed bool, fn gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if authed {
			setAuth(c)
		}
		fn(c)
	})
	r.ServeHTTP(w, req)
	return w
}

func validClassBody() dto.ClassRequest {
	return dto.ClassRequest{
		CourseID:     testCourseID,
		InstructorID: testInstructorID,
		Days:         []int{1, 3},
		StartTime:    "09:00",
		EndTime:      "10:15",
		StartDate:    "2024-03-04",
		EndDate:      "2024-06-05",
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "test-access-token", ExpiresIn: 7200},
	}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Login: "zhangsan", Password: "Test1234"}), false, h.Login)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/login", "/auth/login", bytes.NewReader([]byte("invalid json")), false, h.Login)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	w := serve("POST", "/auth/login", "/auth/login",
		jsonBody(dto.LoginRequest{Login: "zhangsan", Password: "wrong"}), false, h.Login)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := serve("POST", "/auth/logout", "/auth/logout", nil, true, h.Logout)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.logoutJTI)
	}
}

func TestAuthHandler_Logout_NoToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := serve("POST", "/auth/logout", "/auth/logout", nil, false, h.Logout)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{getCurrentResult: &dto.UserResponse{ID: "test-user-id"}})

	w := serve("GET", "/auth/me", "/auth/me", nil, true, h.GetCurrentUser)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	h = NewAuthHandler(&mockAuthService{getCurrentErr: service.ErrUserNotFound})
	w = serve("GET", "/auth/me", "/auth/me", nil, true, h.GetCurrentUser)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CourseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCourseHandler_Create_Success(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{result: &dto.CourseResponse{ID: "c-1", Code: "CS101"}})

	w := serve("POST", "/courses", "/courses",
		jsonBody(dto.CreateCourseRequest{Code: "CS101", Title: "程序设计", NumCredits: 3}), true, h.CreateCourse)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCourseHandler_Create_DuplicateCode(t *testing.T) {
	verr := &service.ValidationError{Failures: scheduling.CheckCourseCode("CS101", "",
		[]scheduling.CourseRef{{ID: "other", Code: "CS101"}})}
	h := NewCourseHandler(&mockCourseService{err: verr})

	w := serve("POST", "/courses", "/courses",
		jsonBody(dto.CreateCourseRequest{Code: "CS101", Title: "程序设计"}), true, h.CreateCourse)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var body struct {
		Data dto.ValidationResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Data.Valid || len(body.Data.Failures) != 1 {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
	if f := body.Data.Failures[0]; f.Kind != "duplicate_course_code" || f.Field != "course_code" {
		t.Errorf("unexpected failure: %+v", f)
	}
}

func TestCourseHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrCourseNotFound, http.StatusNotFound},
		{"in use", service.ErrCourseInUse, http.StatusConflict},
		{"optimistic lock", pkgerrors.ErrOptimisticLock, http.StatusConflict},
		{"bad prerequisite", service.ErrPrerequisiteNotFound, http.StatusBadRequest},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCourseHandler(&mockCourseService{err: tt.err})
			w := serve("DELETE", "/courses/:id", "/courses/c-1", nil, true, h.DeleteCourse)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestCourseHandler_List_Paginated(t *testing.T) {
	h := NewCourseHandler(&mockCourseService{
		list:  []dto.CourseResponse{{ID: "c-1"}, {ID: "c-2"}},
		total: 45,
	})

	w := serve("GET", "/courses", "/courses?page=2&page_size=20", nil, true, h.ListCourses)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 || body.Data.Pagination.Page != 2 {
		t.Errorf("unexpected pagination: %+v", body.Data.Pagination)
	}
}

// ═══════════════════════════════════════════════════════════
// ClassHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClassHandler_Create_Success(t *testing.T) {
	mock := &mockClassService{result: &dto.ClassResponse{ID: "k-1", DaysLabel: "Mon/Wed"}}
	h := NewClassHandler(mock)

	w := serve("POST", "/classes", "/classes", jsonBody(validClassBody()), true, h.CreateClass)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.gotRole != "admin" {
		t.Errorf("expected caller role admin, got %q", mock.gotRole)
	}
}

func TestClassHandler_Create_BindingRejectsBadFormats(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.ClassRequest)
	}{
		{"weekday out of range", func(r *dto.ClassRequest) { r.Days = []int{0, 3} }},
		{"weekday eight", func(r *dto.ClassRequest) { r.Days = []int{8} }},
		{"bad time", func(r *dto.ClassRequest) { r.StartTime = "9am" }},
		{"hour out of range", func(r *dto.ClassRequest) { r.EndTime = "24:00" }},
		{"bad date", func(r *dto.ClassRequest) { r.StartDate = "2024/03/04" }},
		{"missing course", func(r *dto.ClassRequest) { r.CourseID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validClassBody()
			tt.mutate(&body)
			h := NewClassHandler(&mockClassService{})

			w := serve("POST", "/classes", "/classes", jsonBody(body), true, h.CreateClass)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestClassHandler_Create_OptionalFieldsOmitted(t *testing.T) {
	h := NewClassHandler(&mockClassService{result: &dto.ClassResponse{ID: "k-1"}})

	body := dto.ClassRequest{CourseID: testCourseID, InstructorID: testInstructorID}
	w := serve("POST", "/classes", "/classes", jsonBody(body), true, h.CreateClass)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestClassHandler_Create_Overlap(t *testing.T) {
	verr := &service.ValidationError{Failures: scheduling.Failures{{
		Kind:            scheduling.ScheduleOverlap,
		Field:           scheduling.FieldStartTime,
		Message:         "与该教师的班级 CS101-01 时间冲突",
		ConflictClassID: "k-9",
	}}}
	h := NewClassHandler(&mockClassService{err: verr})

	w := serve("POST", "/classes", "/classes", jsonBody(validClassBody()), true, h.CreateClass)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var body struct {
		Code int                    `json:"code"`
		Data dto.ValidationResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != 10006 {
		t.Errorf("expected code 10006, got %d", body.Code)
	}
	if len(body.Data.Failures) != 1 || body.Data.Failures[0].ConflictClassID != "k-9" {
		t.Errorf("unexpected failures: %+v", body.Data.Failures)
	}
}

func TestClassHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"no permission", service.ErrNoPermission, http.StatusForbidden},
		{"not found", service.ErrClassNotFound, http.StatusNotFound},
		{"optimistic lock", pkgerrors.ErrOptimisticLock, http.StatusConflict},
		{"not instructor", service.ErrNotInstructor, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewClassHandler(&mockClassService{err: tt.err})
			body := dto.UpdateClassRequest{ClassRequest: validClassBody(), Version: 1}

			w := serve("PUT", "/classes/:id", "/classes/k-1", jsonBody(body), true, h.UpdateClass)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestClassHandler_Update_RequiresVersion(t *testing.T) {
	h := NewClassHandler(&mockClassService{})

	w := serve("PUT", "/classes/:id", "/classes/k-1", jsonBody(validClassBody()), true, h.UpdateClass)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestClassHandler_Validate_ReturnsOKWithFailures(t *testing.T) {
	h := NewClassHandler(&mockClassService{validateResult: &dto.ValidationResponse{
		Valid:    false,
		Failures: []dto.FailureResponse{{Kind: "end_time_not_after_start", Field: "end_time"}},
	}})

	body := dto.ValidateClassRequest{ClassRequest: validClassBody()}
	w := serve("POST", "/classes/validate", "/classes/validate", jsonBody(body), true, h.ValidateClass)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Data dto.ValidationResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Valid || len(resp.Data.Failures) != 1 {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

func TestClassHandler_Unauthenticated(t *testing.T) {
	h := NewClassHandler(&mockClassService{})

	w := serve("POST", "/classes", "/classes", jsonBody(validClassBody()), false, h.CreateClass)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// InstructorHandler Tests
// ═══════════════════════════════════════════════════════════

func TestInstructorHandler_List(t *testing.T) {
	h := NewInstructorHandler(&mockUserService{list: []dto.UserResponse{{ID: "i-1", Role: "instructor"}}})

	w := serve("GET", "/instructors", "/instructors", nil, true, h.ListInstructors)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	h = NewInstructorHandler(&mockUserService{err: errors.New("db down")})
	w = serve("GET", "/instructors", "/instructors", nil, true, h.ListInstructors)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
