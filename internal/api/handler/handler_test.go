package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/api/middleware"
	"github.com/AlineIradukunda/dusangire-backend/internal/dto"
	"github.com/AlineIradukunda/dusangire-backend/internal/lifecycle"
	"github.com/AlineIradukunda/dusangire-backend/internal/service"
	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSchoolService lets each test pin the return values it cares about.
type stubSchoolService struct {
	createErr  error
	deleteErr  error
	recoverErr error
	confirmErr error
	school     dto.SchoolResponse
	schools    []dto.SchoolResponse

	lastDeleteReason string
}

func (s *stubSchoolService) Create(_ context.Context, _ *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &s.school, nil
}

func (s *stubSchoolService) GetByID(_ context.Context, _ string) (*dto.SchoolResponse, error) {
	return &s.school, nil
}

func (s *stubSchoolService) List(_ context.Context) ([]dto.SchoolResponse, error) {
	return s.schools, nil
}

func (s *stubSchoolService) ListDeleted(_ context.Context) ([]dto.SchoolResponse, error) {
	return s.schools, nil
}

func (s *stubSchoolService) Update(_ context.Context, _ string, _ *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	return &s.school, nil
}

func (s *stubSchoolService) RequestDelete(_ context.Context, _ string, reason string) error {
	s.lastDeleteReason = reason
	return s.deleteErr
}

func (s *stubSchoolService) Recover(_ context.Context, _ string) error {
	return s.recoverErr
}

func (s *stubSchoolService) ConfirmDelete(_ context.Context, _ string) error {
	return s.confirmErr
}

type stubTransferService struct {
	importResp *dto.ImportResponse
	importErr  error
}

func (s *stubTransferService) Create(_ context.Context, _ *dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	return &dto.TransferResponse{}, nil
}

func (s *stubTransferService) GetByID(_ context.Context, _ string) (*dto.TransferResponse, error) {
	return &dto.TransferResponse{}, nil
}

func (s *stubTransferService) List(_ context.Context) ([]dto.TransferResponse, error) {
	return nil, nil
}

func (s *stubTransferService) ListDeleted(_ context.Context) ([]dto.TransferResponse, error) {
	return nil, nil
}

func (s *stubTransferService) Update(_ context.Context, _ string, _ *dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	return &dto.TransferResponse{}, nil
}

func (s *stubTransferService) RequestDelete(_ context.Context, _, _ string) error { return nil }
func (s *stubTransferService) Recover(_ context.Context, _ string) error          { return nil }
func (s *stubTransferService) ConfirmDelete(_ context.Context, _ string) error    { return nil }

func (s *stubTransferService) ImportSpreadsheet(_ context.Context, _ io.Reader) (*dto.ImportResponse, error) {
	if s.importErr != nil {
		return nil, s.importErr
	}
	return s.importResp, nil
}

type stubReportService struct {
	file *service.ExportFile
	err  error
}

func (s *stubReportService) Generate(_ context.Context, _ *dto.GenerateReportRequest) (*service.ExportFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.file, nil
}

func (s *stubReportService) List(_ context.Context) ([]dto.ReportResponse, error) {
	return nil, nil
}

// testEnv wires a minimal router around stub services, mirroring the real
// route and middleware layout for schools.
type testEnv struct {
	router  *gin.Engine
	jwtMgr  *jwt.Manager
	schools *stubSchoolService
}

func newTestEnv() *testEnv {
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "handler-test-secret-16+",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	})

	schools := &stubSchoolService{}
	h := NewSchoolHandler(schools)

	r := gin.New()
	mutator := middleware.RoleAuth(jwt.RoleAdmin, jwt.RoleSuperuser)
	superOnly := middleware.RoleAuth(jwt.RoleSuperuser)

	grp := r.Group("/schools")
	grp.Use(middleware.OptionalJWTAuth(jwtMgr, nil))
	grp.GET("", h.List)

	authed := grp.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, nil))
	authed.POST("", h.Create)
	authed.PUT("/:id/delete", mutator, h.RequestDelete)
	authed.PUT("/:id/recover", mutator, h.Recover)
	authed.DELETE("/:id/confirm", superOnly, h.ConfirmDelete)

	return &testEnv{router: r, jwtMgr: jwtMgr, schools: schools}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := e.jwtMgr.GenerateAccessToken("user-1", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// newMultipartFile writes a single-file multipart body into buf and returns
// the Content-Type header to send with it.
func newMultipartFile(t *testing.T, buf *bytes.Buffer, filename string, content []byte) string {
	t.Helper()

	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return mw.FormDataContentType()
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body.Code
}

func TestPublicListNeedsNoToken(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/schools", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestMutationRequiresToken(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/schools", "", `{"name":"A","district":"D","sector":"S"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if code := decodeCode(t, w); code != 10002 {
		t.Errorf("code = %d, want 10002", code)
	}
}

func TestRoleGateBlocksPlainUser(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, jwt.RoleUser)

	w := env.request(t, http.MethodPut, "/schools/s1/delete", token, `{"reason":"closed"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if code := decodeCode(t, w); code != 10003 {
		t.Errorf("code = %d, want 10003", code)
	}
}

func TestAdminCanCreate(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, jwt.RoleAdmin)

	w := env.request(t, http.MethodPost, "/schools", token, `{"name":"A","district":"D","sector":"S"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
}

func TestConfirmDeleteIsSuperuserOnly(t *testing.T) {
	env := newTestEnv()

	admin := env.tokenFor(t, jwt.RoleAdmin)
	w := env.request(t, http.MethodDelete, "/schools/s1/confirm", admin, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("admin: status = %d, want 403", w.Code)
	}

	super := env.tokenFor(t, jwt.RoleSuperuser)
	w = env.request(t, http.MethodDelete, "/schools/s1/confirm", super, "")
	if w.Code != http.StatusOK {
		t.Errorf("superuser: status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestRequestDeleteNeedsReason(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, jwt.RoleAdmin)

	w := env.request(t, http.MethodPut, "/schools/s1/delete", token, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if env.schools.lastDeleteReason != "" {
		t.Errorf("service was called with reason %q, want no call", env.schools.lastDeleteReason)
	}

	w = env.request(t, http.MethodPut, "/schools/s1/delete", token, `{"reason":"school closed"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if env.schools.lastDeleteReason != "school closed" {
		t.Errorf("reason = %q, want %q", env.schools.lastDeleteReason, "school closed")
	}
}

func TestLifecycleErrorMapping(t *testing.T) {
	env := newTestEnv()
	env.schools.recoverErr = lifecycle.ErrInvalidTransition
	token := env.tokenFor(t, jwt.RoleAdmin)

	w := env.request(t, http.MethodPut, "/schools/s1/recover", token, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if code := decodeCode(t, w); code != 11011 {
		t.Errorf("code = %d, want 11011", code)
	}
}

func TestDuplicateSchoolName(t *testing.T) {
	env := newTestEnv()
	env.schools.createErr = service.ErrSchoolNameExists
	token := env.tokenFor(t, jwt.RoleAdmin)

	w := env.request(t, http.MethodPost, "/schools", token, `{"name":"A","district":"D","sector":"S"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if code := decodeCode(t, w); code != 11002 {
		t.Errorf("code = %d, want 11002", code)
	}
}

func TestListPayloadShape(t *testing.T) {
	env := newTestEnv()
	env.schools.schools = []dto.SchoolResponse{{
		ID:            "s1",
		Name:          "GS Kacyiru",
		TotalReceived: decimal.NewFromInt(1200),
		DeleteStatus:  "active",
	}}

	w := env.request(t, http.MethodGet, "/schools", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Code int `json:"code"`
		Data struct {
			List []dto.SchoolResponse `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != 0 {
		t.Errorf("code = %d, want 0", body.Code)
	}
	if len(body.Data.List) != 1 || body.Data.List[0].Name != "GS Kacyiru" {
		t.Errorf("list = %+v, want the stubbed school", body.Data.List)
	}
}

func TestImportMissingColumnsResponse(t *testing.T) {
	stub := &stubTransferService{
		importErr: &service.MissingColumnsError{Columns: []string{"donor", "amount"}},
	}
	cfg := &config.Config{Import: config.ImportConfig{MaxFileBytes: 1 << 20}}
	h := NewTransferHandler(cfg, stub)

	r := gin.New()
	r.POST("/transfers/upload", h.Upload)

	var buf bytes.Buffer
	mw := newMultipartFile(t, &buf, "donations.xlsx", []byte("fake-xlsx"))

	req := httptest.NewRequest(http.MethodPost, "/transfers/upload", &buf)
	req.Header.Set("Content-Type", mw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	var body struct {
		Code    int    `json:"code"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != 12006 {
		t.Errorf("code = %d, want 12006", body.Code)
	}
	if !strings.Contains(body.Details, "donor") {
		t.Errorf("details = %q, want the missing columns listed", body.Details)
	}
}

func TestReportGenerateStreamsDownload(t *testing.T) {
	stub := &stubReportService{
		file: &service.ExportFile{
			Content:     bytes.NewBufferString("Name,Sector,District\n"),
			Filename:    "schools_report_20260828.csv",
			ContentType: "text/csv",
		},
	}
	h := NewReportHandler(stub)

	r := gin.New()
	r.POST("/reports/generate", h.Generate)

	req := httptest.NewRequest(http.MethodPost, "/reports/generate",
		strings.NewReader(`{"report_type":"schools","format":"csv"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("content type = %q, want text/csv", got)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "schools_report_20260828.csv") {
		t.Errorf("disposition = %q, want the filename", disposition)
	}
	if w.Body.String() != "Name,Sector,District\n" {
		t.Errorf("body = %q, want the rendered file", w.Body.String())
	}
}

func TestReportGenerateBadDateRange(t *testing.T) {
	stub := &stubReportService{err: service.ErrInvalidDateRange}
	h := NewReportHandler(stub)

	r := gin.New()
	r.POST("/reports/generate", h.Generate)

	req := httptest.NewRequest(http.MethodPost, "/reports/generate",
		strings.NewReader(`{"report_type":"schools","format":"csv","start_date":"2026-01-01"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
