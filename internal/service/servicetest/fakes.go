// Package servicetest provides in-memory repositories for service tests.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

// Tx runs fn directly, standing in for database.Transactor.
type Tx struct{}

func (Tx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Tx) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type UserRepo struct {
	mu    sync.Mutex
	Users map[string]user.User
}

func NewUserRepo(users ...user.User) *UserRepo {
	r := &UserRepo{Users: make(map[string]user.User)}
	for _, u := range users {
		r.Users[u.ID] = u
	}
	return r
}

func (r *UserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if u.ID == "" {
		u.ID = "user-" + time.Now().Format("150405.000000000")
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.Users[u.ID] = u
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepo) List(ctx context.Context, scope user.Scope, filter user.UserFilter) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.Users {
		if scope.Allows(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *UserRepo) update(id string, fn func(*user.User)) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.Users[id] = u
	return u, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	return r.update(id, func(u *user.User) {
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.Phone != nil {
			u.Phone = req.Phone
		}
	})
}

func (r *UserRepo) UpdateRole(ctx context.Context, id string, req user.UpdateRoleRequest) (user.User, error) {
	return r.update(id, func(u *user.User) {
		u.Role = user.Role(req.Role)
		if req.Designation != nil {
			u.Designation = user.Designation(*req.Designation)
		}
		if req.ReportingBhID != nil {
			u.ReportingBhID = req.ReportingBhID
		}
	})
}

func (r *UserRepo) UpdateSalaryConfig(ctx context.Context, id string, req user.UpdateSalaryConfigRequest) (user.User, error) {
	return r.update(id, func(u *user.User) {
		u.AllocatedSalary = req.AllocatedSalary
		u.SalaryDeductions = req.SalaryDeductions
		u.SalaryDeductionBreakdown = req.SalaryDeductionBreakdown
		u.SalaryViewEnabled = req.SalaryViewEnabled
		u.TimeShortageDeductionEnabled = req.TimeShortageDeductionEnabled
	})
}

func (r *UserRepo) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	_, err := r.update(id, func(u *user.User) { u.Status = status })
	return err
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.Users, id)
	return nil
}

func (r *UserRepo) ListActiveEmployees(ctx context.Context, createdBefore time.Time) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.Users {
		if u.Status == user.StatusActive && u.Role == user.RoleEmployee && !u.CreatedAt.After(createdBefore) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) ListActive(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, u := range r.Users {
		if u.Status == user.StatusActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type AuditRepo struct {
	mu   sync.Mutex
	Logs []audit.AuditLog
}

func (r *AuditRepo) Create(ctx context.Context, log audit.AuditLog) (audit.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.CreatedAt = time.Now()
	r.Logs = append(r.Logs, log)
	return log, nil
}

func (r *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]audit.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.AuditLog
	for _, l := range r.Logs {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

// SessionRepo satisfies postgresql.JWTRepository and records per-user revocations.
type SessionRepo struct {
	mu          sync.Mutex
	RevokedUser []string
}

func (r *SessionRepo) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	return nil
}

func (r *SessionRepo) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	return "", true, nil
}

func (r *SessionRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return nil
}

func (r *SessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RevokedUser = append(r.RevokedUser, userID)
	return nil
}
