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

	"caseflow/backend/internal/dto"
	"caseflow/backend/internal/repository"
	"caseflow/backend/internal/service"
	pkgerrors "caseflow/backend/pkg/errors"
	"caseflow/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock CaseService ──

type mockCaseService struct {
	createResult *dto.CaseResponse
	createErr    error
	getResult    *dto.CaseResponse
	getErr       error
	updateResult *dto.CaseResponse
	updateErr    error
	deleteErr    error
	listResult   []dto.CaseResponse
	listTotal    int64
	listErr      error
	setLockErr   error
}

func (m *mockCaseService) Create(_ context.Context, _ *dto.CreateCaseRequest, _ string) (*dto.CaseResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockCaseService) Get(_ context.Context, _ string) (*dto.CaseResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCaseService) Update(_ context.Context, _ string, _ *dto.UpdateCaseRequest, _ string) (*dto.CaseResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockCaseService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockCaseService) List(_ context.Context, _ repository.CaseFilter) ([]dto.CaseResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCaseService) SetDiaryLocked(_ context.Context, _ string, _ bool) error {
	return m.setLockErr
}

// ── Mock DiaryService ──

type mockDiaryService struct {
	listResult     []dto.DiaryEntryResponse
	listErr        error
	generateResult *dto.GenerateDiaryResponse
	generateErr    error
	updateResult   *dto.DiaryEntryResponse
	updateErr      error
}

func (m *mockDiaryService) List(_ context.Context, _, _ string) ([]dto.DiaryEntryResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockDiaryService) Generate(_ context.Context, _, _ string) (*dto.GenerateDiaryResponse, error) {
	return m.generateResult, m.generateErr
}
func (m *mockDiaryService) UpdateEntry(_ context.Context, _ string, _ *dto.UpdateDiaryEntryRequest, _ string) (*dto.DiaryEntryResponse, error) {
	return m.updateResult, m.updateErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDiary(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportTimesheet(_ context.Context, _ string, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportDiaryICS(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
	c.Set("jti", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
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

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "jane@firm.co.uk",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CaseHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCaseHandler_Create_Success(t *testing.T) {
	mock := &mockCaseService{
		createResult: &dto.CaseResponse{ID: "case-1", CaseName: "Alpha Trading Ltd"},
	}
	h := NewCaseHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/cases", jsonBody(dto.CreateCaseRequest{
		CaseName: "Alpha Trading Ltd",
		CaseType: "CVL",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/cases", func(c *gin.Context) {
		setAuth(c)
		h.CreateCase(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestCaseHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrCaseNotFound, 404, 13001},
		{"InvalidType", service.ErrInvalidCaseType, 400, 13002},
		{"InvalidDate", service.ErrInvalidDate, 400, 13003},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 13004},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCaseService{getErr: tt.err}
			h := NewCaseHandler(mock)

			w := setupGin()
			req := httptest.NewRequest("GET", "/cases/case-1", nil)

			r := gin.New()
			r.GET("/cases/:id", h.GetCase)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestCaseHandler_SetDiaryLock_MissingBody(t *testing.T) {
	mock := &mockCaseService{}
	h := NewCaseHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("PUT", "/cases/case-1/diary-lock", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/cases/:id/diary-lock", h.SetDiaryLock)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DiaryHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDiaryHandler_List_Success(t *testing.T) {
	mock := &mockDiaryService{
		listResult: []dto.DiaryEntryResponse{
			{ID: "de-1", Title: "File report to creditors", Status: "pending"},
		},
	}
	h := NewDiaryHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/cases/case-1/diary?view=post_appointment", nil)

	r := gin.New()
	r.GET("/cases/:id/diary", h.ListEntries)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDiaryHandler_Generate_Locked(t *testing.T) {
	mock := &mockDiaryService{generateErr: service.ErrDiaryLocked}
	h := NewDiaryHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("POST", "/cases/case-1/diary/generate", nil)

	r := gin.New()
	r.POST("/cases/:id/diary/generate", func(c *gin.Context) {
		setAuth(c)
		h.Generate(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

func TestDiaryHandler_UpdateEntry_Conflict(t *testing.T) {
	mock := &mockDiaryService{updateErr: pkgerrors.ErrOptimisticLock}
	h := NewDiaryHandler(mock)

	notes := "Chased creditor"
	w := setupGin()
	req := httptest.NewRequest("PUT", "/diary-entries/de-1", jsonBody(dto.UpdateDiaryEntryRequest{
		Notes: &notes,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/diary-entries/:id", func(c *gin.Context) {
		setAuth(c)
		h.UpdateEntry(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestDiaryHandler_List_InvalidView(t *testing.T) {
	mock := &mockDiaryService{listErr: service.ErrInvalidDiaryView}
	h := NewDiaryHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/cases/case-1/diary?view=bogus", nil)

	r := gin.New()
	r.GET("/cases/:id/diary", h.ListEntries)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15003 {
		t.Errorf("expected error code 15003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Diary_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "case_diary_CVL-2026-001.xlsx",
	}
	h := NewExportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/export/cases/case-1/diary", nil)

	r := gin.New()
	r.GET("/export/cases/:id/diary", h.ExportDiary)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_DiaryICS_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR"),
		filename: "case_diary_CVL-2026-001.ics",
	}
	h := NewExportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/export/cases/case-1/diary.ics", nil)

	r := gin.New()
	r.GET("/export/cases/:id/diary.ics", h.ExportDiaryICS)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != icsContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestExportHandler_NoEntries(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoEntries}
	h := NewExportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/export/cases/case-1/diary", nil)

	r := gin.New()
	r.GET("/export/cases/:id/diary", h.ExportDiary)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_Timesheet_BadRange(t *testing.T) {
	mock := &mockExportService{}
	h := NewExportHandler(mock)

	w := setupGin()
	req := httptest.NewRequest("GET", "/export/timesheets?from=last-week&to=now", nil)

	r := gin.New()
	r.GET("/export/timesheets", func(c *gin.Context) {
		setAuth(c)
		h.ExportTimesheet(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
