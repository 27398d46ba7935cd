package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayroll struct {
	sel    payroll.Selector
	userID string
	err    error
}

func (f *fakePayroll) MySalary(_ context.Context, actor user.Actor, sel payroll.Selector) (payroll.Salary, error) {
	f.sel = sel
	return payroll.Salary{UserID: actor.ID}, f.err
}

func (f *fakePayroll) UserSalary(_ context.Context, _ user.Actor, userID string, sel payroll.Selector) (payroll.Salary, error) {
	f.sel, f.userID = sel, userID
	return payroll.Salary{UserID: userID}, f.err
}

func (f *fakePayroll) Report(_ context.Context, _ user.Actor, sel payroll.Selector) ([]byte, string, error) {
	f.sel = sel
	return []byte("xlsx"), "payroll-2026-02.xlsx", f.err
}

func (f *fakePayroll) GetSettings(context.Context, user.Actor) (payroll.SettingsResponse, error) {
	return payroll.SettingsResponse{TimeShortageDeductionEnabled: true}, f.err
}

func (f *fakePayroll) UpdateSettings(_ context.Context, _ user.Actor, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	return payroll.SettingsResponse{TimeShortageDeductionEnabled: *req.TimeShortageDeductionEnabled}, f.err
}

type fakeRequests struct {
	created  string
	reviewed approval.ReviewRequest
	filter   approval.ListFilter
	err      error
}

type note struct {
	Text string `json:"text"`
}

func (f *fakeRequests) Create(_ context.Context, _ user.Actor, req note) (note, error) {
	f.created = req.Text
	return req, f.err
}

func (f *fakeRequests) Get(_ context.Context, _ user.Actor, id string) (note, error) {
	return note{Text: id}, f.err
}

func (f *fakeRequests) ListMine(_ context.Context, _ user.Actor, filter approval.ListFilter) ([]note, error) {
	f.filter = filter
	return []note{}, f.err
}

func (f *fakeRequests) ListPending(_ context.Context, _ user.Actor, filter approval.ListFilter) ([]note, error) {
	f.filter = filter
	return []note{}, f.err
}

func (f *fakeRequests) Review(_ context.Context, _ user.Actor, id string, req approval.ReviewRequest) (note, error) {
	f.reviewed = req
	return note{Text: id}, f.err
}

func (f *fakeRequests) Delete(context.Context, user.Actor, string) error {
	return f.err
}

func withActor(actor user.Actor, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(middleware.WithActor(r.Context(), actor)))
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPayrollHandler_Selector(t *testing.T) {
	svc := &fakePayroll{}
	h := NewPayrollHandler(svc)
	r := chi.NewRouter()
	r.Get("/me", h.MySalary)
	r.Get("/users/{userID}", h.UserSalary)
	srv := withActor(user.Actor{ID: "emp-1", Role: user.RoleEmployee}, r)

	rec := serve(srv, http.MethodGet, "/me?cycle=latest", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payroll.SelectLatest, svc.sel.Mode)

	rec = serve(srv, http.MethodGet, "/users/emp-7?month=2&year=2026", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-7", svc.userID)
	assert.Equal(t, payroll.Selector{Mode: payroll.SelectMonth, Month: 2, Year: 2026}, svc.sel)

	rec = serve(srv, http.MethodGet, "/me?month=13&year=2026", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPayrollHandler_ViewDisabled(t *testing.T) {
	h := NewPayrollHandler(&fakePayroll{err: payroll.ErrSalaryViewDisabled})
	srv := withActor(user.Actor{ID: "emp-1", Role: user.RoleEmployee}, http.HandlerFunc(h.MySalary))

	rec := serve(srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, response.CodeSalaryViewDisabled, decodeBody(t, rec).Error.Code)
}

func TestPayrollHandler_Report(t *testing.T) {
	h := NewPayrollHandler(&fakePayroll{})
	srv := withActor(user.Actor{ID: "hr-1", Role: user.RoleHR}, http.HandlerFunc(h.Report))

	rec := serve(srv, http.MethodGet, "/?month=2&year=2026", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payroll-2026-02.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rec.Body.String())
}

func TestPayrollHandler_UpdateSettings(t *testing.T) {
	h := NewPayrollHandler(&fakePayroll{})
	srv := withActor(user.Actor{ID: "admin-1", Role: user.RoleAdmin}, http.HandlerFunc(h.UpdateSettings))

	rec := serve(srv, http.MethodPut, "/", `{"time_shortage_deduction_enabled": false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"time_shortage_deduction_enabled": false}, decodeBody(t, rec).Data)

	rec = serve(srv, http.MethodPut, "/", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestHandler(t *testing.T) {
	svc := &fakeRequests{}
	h := &requestHandlerImpl[note, note, []note]{name: "Note", service: svc}
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/pending", h.ListPending)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/review", h.Review)
	srv := withActor(user.Actor{ID: "hr-1", Role: user.RoleHR}, r)

	rec := serve(srv, http.MethodPost, "/", `{"text":"hello"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello", svc.created)
	assert.Equal(t, "Note submitted successfully", decodeBody(t, rec).Message)

	rec = serve(srv, http.MethodGet, "/pending?status=approved&page=2&limit=500", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Status)
	assert.Equal(t, approval.StatusApproved, *svc.filter.Status)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 20, svc.filter.Limit)

	rec = serve(srv, http.MethodGet, "/pending?status=bogus", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.filter.Status)

	rec = serve(srv, http.MethodPost, "/req-1/review", `{"decision":"APPROVED"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APPROVED", svc.reviewed.Decision)

	svc.err = leave.ErrLeaveRequestNotFound
	rec = serve(srv, http.MethodGet, "/req-9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestHandler_NoActor(t *testing.T) {
	h := NewLeaveHandler(nil)

	rec := serve(http.HandlerFunc(h.ListMine), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
