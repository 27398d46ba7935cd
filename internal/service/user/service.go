package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	tx        database.Transactor
	userRepo  user.UserRepository
	auditRepo audit.AuditLogRepository
	jwtRepo   postgresql.JWTRepository
}

func NewUserService(tx database.Transactor, userRepo user.UserRepository, auditRepo audit.AuditLogRepository, jwtRepo postgresql.JWTRepository) user.UserService {
	return &UserServiceImpl{
		tx:        tx,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		jwtRepo:   jwtRepo,
	}
}

// canSeeSalary reports whether actor may read salary configuration of owner.
func canSeeSalary(actor user.Actor, ownerID string) bool {
	return actor.Role.IsAdminTier() || actor.ID == ownerID
}

func (s *UserServiceImpl) checkReportingBH(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	bh, err := s.userRepo.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrInvalidReportingBH
		}
		return fmt.Errorf("failed to get reporting user: %w", err)
	}
	if !bh.Role.IsBHTier() {
		return user.ErrInvalidReportingBH
	}
	return nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, actor user.Actor, req user.CreateUserRequest) (user.UserResponse, error) {
	if !actor.Role.IsAdminTier() {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if err := s.checkReportingBH(ctx, req.ReportingBhID); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	allocated := decimal.Zero
	if req.AllocatedSalary != nil {
		allocated = *req.AllocatedSalary
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Name:                         strings.TrimSpace(req.Name),
		Email:                        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:                 &hashed,
		Phone:                        req.Phone,
		Role:                         user.Role(req.Role),
		Designation:                  user.Designation(req.Designation),
		Status:                       user.StatusActive,
		ReportingBhID:                req.ReportingBhID,
		AllocatedSalary:              allocated,
		SalaryDeductions:             decimal.Zero,
		SalaryDeductionBreakdown:     user.DeductionBreakdown{},
		SalaryViewEnabled:            true,
		TimeShortageDeductionEnabled: true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User created", "user_id", created.ID, "role", created.Role, "created_by", actor.ID)
	return created.ToResponse(true), nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (user.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !user.ResolveScope(actor).Allows(u) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	return u.ToResponse(canSeeSalary(actor, u.ID)), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.Actor, filter user.UserFilter) (user.ListUserResponse, error) {
	filter.Normalize()

	users, total, err := s.userRepo.List(ctx, user.ResolveScope(actor), filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	resp := user.ListUserResponse{
		Users:      make([]user.UserResponse, 0, len(users)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, u.ToResponse(canSeeSalary(actor, u.ID)))
	}
	return resp, nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, actor user.Actor, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	updated, err := s.userRepo.UpdateProfile(ctx, actor.ID, req)
	if err != nil {
		return user.UserResponse{}, err
	}
	return updated.ToResponse(true), nil
}

// UpdateRole implements user.UserService.
func (s *UserServiceImpl) UpdateRole(ctx context.Context, actor user.Actor, id string, req user.UpdateRoleRequest) (user.UserResponse, error) {
	if actor.Role != user.RoleAdmin {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if req.ReportingBhID != nil && *req.ReportingBhID == id {
		return user.UserResponse{}, user.ErrInvalidReportingBH
	}
	if err := s.checkReportingBH(ctx, req.ReportingBhID); err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.userRepo.UpdateRole(ctx, id, req)
	if err != nil {
		return user.UserResponse{}, err
	}
	return updated.ToResponse(true), nil
}

// UpdateSalaryConfig implements user.UserService.
func (s *UserServiceImpl) UpdateSalaryConfig(ctx context.Context, actor user.Actor, id string, req user.UpdateSalaryConfigRequest) (user.UserResponse, error) {
	if !actor.Role.IsAdminTier() {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if req.SalaryDeductionBreakdown == nil {
		req.SalaryDeductionBreakdown = user.DeductionBreakdown{}
	}

	updated, err := s.userRepo.UpdateSalaryConfig(ctx, id, req)
	if err != nil {
		return user.UserResponse{}, err
	}
	return updated.ToResponse(true), nil
}

// UpdateStatus implements user.UserService. Blocking also revokes every refresh token.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, actor user.Actor, id string, req user.UpdateStatusRequest) error {
	if !actor.Role.IsAdminTier() {
		return user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return err
	}

	status := user.Status(req.Status)
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		target, err := s.userRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if target.Status == status {
			return nil
		}

		if err := s.userRepo.UpdateStatus(txCtx, id, status); err != nil {
			return err
		}
		if status == user.StatusBlocked {
			if err := s.jwtRepo.RevokeAllForUser(txCtx, id); err != nil {
				return fmt.Errorf("failed to revoke sessions: %w", err)
			}
		}

		actorID := actor.ID
		_, err = s.auditRepo.Create(txCtx, audit.AuditLog{
			ActorID:    &actorID,
			Action:     audit.ActionUserStatusChanged,
			EntityType: audit.EntityUser,
			EntityID:   id,
			Details: map[string]any{
				"from":   string(target.Status),
				"to":     string(status),
				"reason": req.Reason,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if actor.Role != user.RoleAdmin {
		return user.ErrInsufficientPermissions
	}
	if actor.ID == id {
		return user.ErrCannotDeleteSelf
	}

	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		target, err := s.userRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.userRepo.Delete(txCtx, id); err != nil {
			return err
		}

		actorID := actor.ID
		_, err = s.auditRepo.Create(txCtx, audit.AuditLog{
			ActorID:    &actorID,
			Action:     audit.ActionUserDeleted,
			EntityType: audit.EntityUser,
			EntityID:   id,
			Details:    map[string]any{"email": target.Email, "role": string(target.Role)},
		})
		if err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		slog.Info("User deleted", "user_id", id, "deleted_by", actor.ID)
		return nil
	})
}
