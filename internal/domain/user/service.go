package user

import "context"

type UserService interface {
	Create(ctx context.Context, actor Actor, req CreateUserRequest) (UserResponse, error)
	Get(ctx context.Context, actor Actor, id string) (UserResponse, error)
	List(ctx context.Context, actor Actor, filter UserFilter) (ListUserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req UpdateProfileRequest) (UserResponse, error)
	UpdateRole(ctx context.Context, actor Actor, id string, req UpdateRoleRequest) (UserResponse, error)
	UpdateSalaryConfig(ctx context.Context, actor Actor, id string, req UpdateSalaryConfigRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) error
	Delete(ctx context.Context, actor Actor, id string) error
}
