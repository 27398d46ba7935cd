package user

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, scope Scope, filter UserFilter) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (User, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (User, error)
	UpdateSalaryConfig(ctx context.Context, id string, req UpdateSalaryConfigRequest) (User, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error

	// ListActiveEmployees returns ACTIVE users with role EMPLOYEE created at or before createdBefore.
	ListActiveEmployees(ctx context.Context, createdBefore time.Time) ([]User, error)
	// ListActive returns every ACTIVE user ordered by name.
	ListActive(ctx context.Context) ([]User, error)
}
