package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandler answers every route with its own route pattern.
type stubHandler struct{}

func (stubHandler) ok(w http.ResponseWriter, r *http.Request) {
	response.Success(w, chi.RouteContext(r.Context()).RoutePattern())
}

func (s stubHandler) Login(w http.ResponseWriter, r *http.Request)              { s.ok(w, r) }
func (s stubHandler) Logout(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) RefreshToken(w http.ResponseWriter, r *http.Request)       { s.ok(w, r) }
func (s stubHandler) Create(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) Get(w http.ResponseWriter, r *http.Request)                { s.ok(w, r) }
func (s stubHandler) List(w http.ResponseWriter, r *http.Request)               { s.ok(w, r) }
func (s stubHandler) Me(w http.ResponseWriter, r *http.Request)                 { s.ok(w, r) }
func (s stubHandler) UpdateProfile(w http.ResponseWriter, r *http.Request)      { s.ok(w, r) }
func (s stubHandler) UpdateRole(w http.ResponseWriter, r *http.Request)         { s.ok(w, r) }
func (s stubHandler) UpdateSalaryConfig(w http.ResponseWriter, r *http.Request) { s.ok(w, r) }
func (s stubHandler) UpdateStatus(w http.ResponseWriter, r *http.Request)       { s.ok(w, r) }
func (s stubHandler) Delete(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) CheckIn(w http.ResponseWriter, r *http.Request)            { s.ok(w, r) }
func (s stubHandler) CheckOut(w http.ResponseWriter, r *http.Request)           { s.ok(w, r) }
func (s stubHandler) StartBreak(w http.ResponseWriter, r *http.Request)         { s.ok(w, r) }
func (s stubHandler) EndBreak(w http.ResponseWriter, r *http.Request)           { s.ok(w, r) }
func (s stubHandler) GetMyAttendance(w http.ResponseWriter, r *http.Request)    { s.ok(w, r) }
func (s stubHandler) GetUserAttendance(w http.ResponseWriter, r *http.Request)  { s.ok(w, r) }
func (s stubHandler) GetSummary(w http.ResponseWriter, r *http.Request)         { s.ok(w, r) }
func (s stubHandler) Upsert(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) ListMine(w http.ResponseWriter, r *http.Request)           { s.ok(w, r) }
func (s stubHandler) ListPending(w http.ResponseWriter, r *http.Request)        { s.ok(w, r) }
func (s stubHandler) Review(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) MySalary(w http.ResponseWriter, r *http.Request)           { s.ok(w, r) }
func (s stubHandler) UserSalary(w http.ResponseWriter, r *http.Request)         { s.ok(w, r) }
func (s stubHandler) Report(w http.ResponseWriter, r *http.Request)             { s.ok(w, r) }
func (s stubHandler) GetSettings(w http.ResponseWriter, r *http.Request)        { s.ok(w, r) }
func (s stubHandler) UpdateSettings(w http.ResponseWriter, r *http.Request)     { s.ok(w, r) }

var (
	employee = user.User{ID: "emp-1", Email: "emp@example.com", Role: user.RoleEmployee, Designation: user.DesignationLA, Status: user.StatusActive}
	hr       = user.User{ID: "hr-1", Email: "hr@example.com", Role: user.RoleHR, Designation: user.DesignationOther, Status: user.StatusActive}
	admin    = user.User{ID: "admin-1", Email: "admin@example.com", Role: user.RoleAdmin, Designation: user.DesignationOther, Status: user.StatusActive}
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:            "test",
			LogLevel:       "error",
			FrontendOrigin: "http://localhost:3000",
			Version:        "test",
		},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 1000, LoginPerMinute: 2},
		Telemetry: config.TelemetryConfig{ServiceName: "workforce-test"},
	}
}

func newTestRouter(t *testing.T) (http.Handler, jwt.Service) {
	t.Helper()
	jwtSvc := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	s := stubHandler{}
	h := Handlers{
		Auth: s, User: s, Attendance: s, WorkLog: s,
		Leave: s, Permission: s, Wfh: s, SiteVisit: s, ShowroomVisit: s,
		Payroll: s,
	}
	return NewRouter(testConfig(), jwtSvc, servicetest.NewUserRepo(employee, hr, admin), h), jwtSvc
}

func do(t *testing.T, h http.Handler, method, path, token string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.RemoteAddr = "10.0.0.1:4321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func tokenFor(t *testing.T, jwtSvc jwt.Service, u user.User) string {
	t.Helper()
	token, _, err := jwtSvc.GenerateAccessToken(u)
	require.NoError(t, err)
	return token
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, h, http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/api/v1/auth/login", body.Data)
}

func TestRouter_RequiresToken(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RequestRoutes(t *testing.T) {
	h, jwtSvc := newTestRouter(t)
	token := tokenFor(t, jwtSvc, employee)

	for _, prefix := range []string{"/leaves", "/permissions", "/wfh", "/visits/site", "/visits/showroom"} {
		rec, body := do(t, h, http.MethodGet, "/api/v1"+prefix+"/pending", token)
		assert.Equal(t, http.StatusOK, rec.Code, prefix)
		assert.Equal(t, "/api/v1"+prefix+"/pending", body.Data, prefix)

		rec, _ = do(t, h, http.MethodPost, "/api/v1"+prefix+"/req-1/review", token)
		assert.Equal(t, http.StatusOK, rec.Code, prefix)

		rec, _ = do(t, h, http.MethodDelete, "/api/v1"+prefix+"/req-1", token)
		assert.Equal(t, http.StatusForbidden, rec.Code, prefix)
	}

	rec, _ := do(t, h, http.MethodDelete, "/api/v1/leaves/req-1", tokenFor(t, jwtSvc, hr))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminRoutes(t *testing.T) {
	h, jwtSvc := newTestRouter(t)
	emp := tokenFor(t, jwtSvc, employee)
	hrToken := tokenFor(t, jwtSvc, hr)
	adminToken := tokenFor(t, jwtSvc, admin)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/payroll/me", emp)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/v1/payroll/report", emp)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = do(t, h, http.MethodGet, "/api/v1/payroll/report", hrToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/v1/payroll/settings", hrToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = do(t, h, http.MethodPut, "/api/v1/payroll/settings", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/users/", emp)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = do(t, h, http.MethodDelete, "/api/v1/users/emp-1", hrToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = do(t, h, http.MethodDelete, "/api/v1/users/emp-1", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	h, _ := newTestRouter(t)

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodPost, "/api/v1/auth/login", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := do(t, h, http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLogLevel("debug").String())
	assert.Equal(t, "WARN", ParseLogLevel("WARN").String())
	assert.Equal(t, "INFO", ParseLogLevel("verbose").String())
}
