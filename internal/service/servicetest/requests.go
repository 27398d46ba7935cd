package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
)

// page applies a list filter to an already ordered slice.
func page[T any](items []T, filter approval.ListFilter) ([]T, int64) {
	total := int64(len(items))
	filter.Normalize()
	start := min(filter.Offset(), len(items))
	end := min(start+filter.Limit, len(items))
	return items[start:end], total
}

func statusMatches(want *approval.Status, got approval.Status) bool {
	return want == nil || *want == got
}

func containsStatus(statuses []approval.Status, s approval.Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// owner resolves the request owner through the user fake; a nil repo allows everything.
func owner(users *UserRepo, scope user.Scope, userID string) bool {
	if users == nil {
		return true
	}
	u, err := users.GetByID(context.Background(), userID)
	if err != nil {
		return false
	}
	return scope.Allows(u)
}

type LeaveRepo struct {
	mu       sync.Mutex
	seq      int
	Users    *UserRepo
	Requests map[string]leave.LeaveRequest
}

func NewLeaveRepo(users *UserRepo) *LeaveRepo {
	return &LeaveRepo{Users: users, Requests: make(map[string]leave.LeaveRequest)}
}

func (r *LeaveRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("leave-%d", r.seq)
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.UpdatedAt = req.CreatedAt
	r.Requests[req.ID] = req
	return req, nil
}

func (r *LeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *LeaveRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *LeaveRepo) sorted(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, req := range r.Requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *LeaveRepo) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]leave.LeaveRequest, int64, error) {
	items, total := page(r.sorted(func(req leave.LeaveRequest) bool {
		return req.UserID == userID && statusMatches(filter.Status, req.Status)
	}), filter)
	return items, total, nil
}

func (r *LeaveRepo) ListPending(ctx context.Context, q leave.PendingQuery) ([]leave.LeaveRequest, int64, error) {
	items, total := page(r.sorted(func(req leave.LeaveRequest) bool {
		if req.Status != approval.StatusPending || !owner(r.Users, q.Scope, req.UserID) {
			return false
		}
		if q.BusinessHeadID != nil {
			return req.BHStatus == approval.StatusPending && (req.TargetBhID == nil || *req.TargetBhID == *q.BusinessHeadID)
		}
		return true
	}), q.Filter)
	return items, total, nil
}

func (r *LeaveRepo) ListOverlapping(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) ([]leave.LeaveRequest, error) {
	return r.sorted(func(req leave.LeaveRequest) bool {
		return req.UserID == userID && containsStatus(statuses, req.Status) &&
			cycle.DaysBetween(req.StartDate, to) >= 0 && cycle.DaysBetween(from, req.EndDate) >= 0
	}), nil
}

func (r *LeaveRepo) UpdateReview(ctx context.Context, req leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[req.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	req.UpdatedAt = time.Now()
	r.Requests[req.ID] = req
	return nil
}

func (r *LeaveRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.Requests, id)
	return nil
}

type PermissionRepo struct {
	mu       sync.Mutex
	seq      int
	Users    *UserRepo
	Requests map[string]leave.PermissionRequest
}

func NewPermissionRepo(users *UserRepo) *PermissionRepo {
	return &PermissionRepo{Users: users, Requests: make(map[string]leave.PermissionRequest)}
}

func (r *PermissionRepo) Create(ctx context.Context, req leave.PermissionRequest) (leave.PermissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("perm-%d", r.seq)
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.UpdatedAt = req.CreatedAt
	r.Requests[req.ID] = req
	return req, nil
}

func (r *PermissionRepo) GetByID(ctx context.Context, id string) (leave.PermissionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[id]
	if !ok {
		return leave.PermissionRequest{}, leave.ErrPermissionRequestNotFound
	}
	return req, nil
}

func (r *PermissionRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.PermissionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *PermissionRepo) sorted(keep func(leave.PermissionRequest) bool) []leave.PermissionRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.PermissionRequest
	for _, req := range r.Requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *PermissionRepo) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]leave.PermissionRequest, int64, error) {
	items, total := page(r.sorted(func(req leave.PermissionRequest) bool {
		return req.UserID == userID && statusMatches(filter.Status, req.Status)
	}), filter)
	return items, total, nil
}

func (r *PermissionRepo) ListPending(ctx context.Context, q leave.PendingQuery) ([]leave.PermissionRequest, int64, error) {
	items, total := page(r.sorted(func(req leave.PermissionRequest) bool {
		if req.Status != approval.StatusPending || !owner(r.Users, q.Scope, req.UserID) {
			return false
		}
		if q.BusinessHeadID != nil {
			return req.BHStatus == approval.StatusPending && (req.TargetBhID == nil || *req.TargetBhID == *q.BusinessHeadID)
		}
		return true
	}), q.Filter)
	return items, total, nil
}

func (r *PermissionRepo) CountInWindow(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) (int, error) {
	return len(r.sorted(func(req leave.PermissionRequest) bool {
		return req.UserID == userID && containsStatus(statuses, req.Status) &&
			cycle.DaysBetween(from, req.Date) >= 0 && cycle.DaysBetween(req.Date, to) >= 0
	})), nil
}

func (r *PermissionRepo) ExistsOnDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	return len(r.sorted(func(req leave.PermissionRequest) bool {
		return req.UserID == userID && req.Status != approval.StatusRejected && cycle.DateKey(req.Date) == cycle.DateKey(date)
	})) > 0, nil
}

func (r *PermissionRepo) UpdateReview(ctx context.Context, req leave.PermissionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[req.ID]; !ok {
		return leave.ErrPermissionRequestNotFound
	}
	req.UpdatedAt = time.Now()
	r.Requests[req.ID] = req
	return nil
}

func (r *PermissionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[id]; !ok {
		return leave.ErrPermissionRequestNotFound
	}
	delete(r.Requests, id)
	return nil
}

type VisitRepo struct {
	mu       sync.Mutex
	seq      int
	Users    *UserRepo
	Requests map[string]visit.VisitRequest
}

func NewVisitRepo(users *UserRepo) *VisitRepo {
	return &VisitRepo{Users: users, Requests: make(map[string]visit.VisitRequest)}
}

func (r *VisitRepo) Create(ctx context.Context, req visit.VisitRequest) (visit.VisitRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("visit-%d", r.seq)
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.UpdatedAt = req.CreatedAt
	r.Requests[req.ID] = req
	return req, nil
}

func (r *VisitRepo) GetByID(ctx context.Context, id string) (visit.VisitRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[id]
	if !ok {
		return visit.VisitRequest{}, visit.ErrVisitRequestNotFound
	}
	return req, nil
}

func (r *VisitRepo) GetByIDForUpdate(ctx context.Context, id string) (visit.VisitRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *VisitRepo) sorted(keep func(visit.VisitRequest) bool) []visit.VisitRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []visit.VisitRequest
	for _, req := range r.Requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *VisitRepo) ListByUser(ctx context.Context, userID string, kind *visit.Kind, filter approval.ListFilter) ([]visit.VisitRequest, int64, error) {
	items, total := page(r.sorted(func(req visit.VisitRequest) bool {
		return req.UserID == userID && (kind == nil || *kind == req.Kind) && statusMatches(filter.Status, req.Status)
	}), filter)
	return items, total, nil
}

func (r *VisitRepo) ListPending(ctx context.Context, scope user.Scope, kind *visit.Kind, filter approval.ListFilter) ([]visit.VisitRequest, int64, error) {
	items, total := page(r.sorted(func(req visit.VisitRequest) bool {
		return req.Status == approval.StatusPending && (kind == nil || *kind == req.Kind) && owner(r.Users, scope, req.UserID)
	}), filter)
	return items, total, nil
}

func (r *VisitRepo) UpdateReview(ctx context.Context, req visit.VisitRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[req.ID]; !ok {
		return visit.ErrVisitRequestNotFound
	}
	req.UpdatedAt = time.Now()
	r.Requests[req.ID] = req
	return nil
}

func (r *VisitRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[id]; !ok {
		return visit.ErrVisitRequestNotFound
	}
	delete(r.Requests, id)
	return nil
}

// WfhRepo records the reviewer of each level in Reviewers, keyed by request id.
type WfhRepo struct {
	mu        sync.Mutex
	seq       int
	Users     *UserRepo
	Requests  map[string]wfh.WfhRequest
	Reviewers map[string]map[approval.Level]string
}

func NewWfhRepo(users *UserRepo) *WfhRepo {
	return &WfhRepo{
		Users:     users,
		Requests:  make(map[string]wfh.WfhRequest),
		Reviewers: make(map[string]map[approval.Level]string),
	}
}

func (r *WfhRepo) Create(ctx context.Context, req wfh.WfhRequest) (wfh.WfhRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("wfh-%d", r.seq)
	req.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	req.UpdatedAt = req.CreatedAt
	r.Requests[req.ID] = req
	return req, nil
}

func (r *WfhRepo) GetByID(ctx context.Context, id string) (wfh.WfhRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.Requests[id]
	if !ok {
		return wfh.WfhRequest{}, wfh.ErrWfhRequestNotFound
	}
	return req, nil
}

func (r *WfhRepo) GetByIDForUpdate(ctx context.Context, id string) (wfh.WfhRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *WfhRepo) sorted(keep func(wfh.WfhRequest) bool) []wfh.WfhRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []wfh.WfhRequest
	for _, req := range r.Requests {
		if keep(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *WfhRepo) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]wfh.WfhRequest, int64, error) {
	items, total := page(r.sorted(func(req wfh.WfhRequest) bool {
		return req.UserID == userID && statusMatches(filter.Status, req.Status)
	}), filter)
	return items, total, nil
}

func (r *WfhRepo) ListAtLevel(ctx context.Context, level approval.Level, scope user.Scope, filter approval.ListFilter) ([]wfh.WfhRequest, int64, error) {
	items, total := page(r.sorted(func(req wfh.WfhRequest) bool {
		return req.Status == approval.StatusPending && req.CurrentLevel == level && owner(r.Users, scope, req.UserID)
	}), filter)
	return items, total, nil
}

func (r *WfhRepo) UpdateReview(ctx context.Context, req wfh.WfhRequest, actedAt approval.Level, reviewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[req.ID]; !ok {
		return wfh.ErrWfhRequestNotFound
	}
	req.UpdatedAt = time.Now()
	r.Requests[req.ID] = req
	if r.Reviewers[req.ID] == nil {
		r.Reviewers[req.ID] = make(map[approval.Level]string)
	}
	r.Reviewers[req.ID][actedAt] = reviewerID
	return nil
}

func (r *WfhRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Requests[id]; !ok {
		return wfh.ErrWfhRequestNotFound
	}
	delete(r.Requests, id)
	return nil
}

// SettingsRepo returns Err from GetBool when set, otherwise the stored value or ErrSettingNotFound.
type SettingsRepo struct {
	mu     sync.Mutex
	Values map[string]bool
	Err    error
}

func (r *SettingsRepo) GetBool(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	v, ok := r.Values[key]
	if !ok {
		return false, payroll.ErrSettingNotFound
	}
	return v, nil
}

func (r *SettingsRepo) SetBool(ctx context.Context, key string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Values == nil {
		r.Values = make(map[string]bool)
	}
	r.Values[key] = value
	return nil
}
