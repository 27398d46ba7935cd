package leave

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type PermissionServiceImpl struct {
	tx             database.Transactor
	permissionRepo leave.PermissionRequestRepository
	userRepo       user.UserRepository
	auditRepo      audit.AuditLogRepository
	limits         *LimitEvaluator
	now            func() time.Time
}

func NewPermissionService(
	tx database.Transactor,
	permissionRepo leave.PermissionRequestRepository,
	userRepo user.UserRepository,
	auditRepo audit.AuditLogRepository,
	limits *LimitEvaluator,
) leave.PermissionService {
	return &PermissionServiceImpl{
		tx:             tx,
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		limits:         limits,
		now:            time.Now,
	}
}

// Create implements leave.PermissionService. A second non-rejected request
// on the same date is refused.
func (s *PermissionServiceImpl) Create(ctx context.Context, actor user.Actor, req leave.CreatePermissionRequest) (leave.PermissionRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.PermissionRequestResponse{}, err
	}
	date, err := cycle.ParseDate(req.Date)
	if err != nil {
		return leave.PermissionRequestResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	var created leave.PermissionRequest
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.permissionRepo.ExistsOnDate(txCtx, actor.ID, date)
		if err != nil {
			return fmt.Errorf("failed to check permission date: %w", err)
		}
		if exists {
			return validator.ValidationErrors{{
				Field:   "date",
				Message: "a permission request already exists for this date",
			}}
		}

		exceeded, err := s.limits.PermissionExceeded(txCtx, actor.ID, date)
		if err != nil {
			return err
		}

		state := approval.NewTwoTier(req.TargetBhID)
		created, err = s.permissionRepo.Create(txCtx, leave.PermissionRequest{
			UserID:          actor.ID,
			Date:            date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Reason:          strings.TrimSpace(req.Reason),
			TargetBhID:      req.TargetBhID,
			BHStatus:        state.BHStatus,
			HRStatus:        state.HRStatus,
			Status:          state.Status,
			IsExceededLimit: exceeded,
		})
		if err != nil {
			return fmt.Errorf("failed to create permission request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.PermissionRequestResponse{}, err
	}

	metrics.RequestsCreated.WithLabelValues(kindPermission, strconv.FormatBool(created.IsExceededLimit)).Inc()
	return created.ToResponse(), nil
}

// Get implements leave.PermissionService.
func (s *PermissionServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.PermissionRequestResponse, error) {
	req, err := s.permissionRepo.GetByID(ctx, id)
	if err != nil {
		return leave.PermissionRequestResponse{}, err
	}
	if req.UserID != actor.ID {
		owner, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return leave.PermissionRequestResponse{}, err
		}
		if !user.ResolveScope(actor).Allows(owner) {
			return leave.PermissionRequestResponse{}, user.ErrInsufficientPermissions
		}
	}
	return req.ToResponse(), nil
}

func toPermissionList(items []leave.PermissionRequest, total int64, filter approval.ListFilter) leave.ListPermissionRequestResponse {
	resp := leave.ListPermissionRequestResponse{
		Requests:   make([]leave.PermissionRequestResponse, 0, len(items)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}
	for _, item := range items {
		resp.Requests = append(resp.Requests, item.ToResponse())
	}
	return resp
}

// ListMine implements leave.PermissionService.
func (s *PermissionServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (leave.ListPermissionRequestResponse, error) {
	filter.Normalize()
	items, total, err := s.permissionRepo.ListByUser(ctx, actor.ID, filter)
	if err != nil {
		return leave.ListPermissionRequestResponse{}, fmt.Errorf("failed to list permission requests: %w", err)
	}
	return toPermissionList(items, total, filter), nil
}

// ListPending implements leave.PermissionService.
func (s *PermissionServiceImpl) ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (leave.ListPermissionRequestResponse, error) {
	filter.Normalize()
	q, err := pendingQuery(actor, filter)
	if err != nil {
		return leave.ListPermissionRequestResponse{}, err
	}
	items, total, err := s.permissionRepo.ListPending(ctx, q)
	if err != nil {
		return leave.ListPermissionRequestResponse{}, fmt.Errorf("failed to list pending permission requests: %w", err)
	}
	return toPermissionList(items, total, filter), nil
}

// Review implements leave.PermissionService.
func (s *PermissionServiceImpl) Review(ctx context.Context, actor user.Actor, id string, review approval.ReviewRequest) (leave.PermissionRequestResponse, error) {
	if err := review.Validate(); err != nil {
		return leave.PermissionRequestResponse{}, err
	}
	decision := approval.Status(review.Decision)

	var updated leave.PermissionRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.permissionRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		owner, err := s.userRepo.GetByID(txCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get request owner: %w", err)
		}

		next, err := approval.ReviewTwoTier(actor, owner, req.Approval(), decision)
		if err != nil {
			return err
		}

		now := s.now()
		reviewer := actor.ID
		req.ApplyApproval(next)
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &now
		if review.Remarks != nil {
			req.ReviewRemarks = review.Remarks
		}
		if err := s.permissionRepo.UpdateReview(txCtx, req); err != nil {
			return fmt.Errorf("failed to update permission request: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return leave.PermissionRequestResponse{}, err
	}

	metrics.RequestReviews.WithLabelValues(kindPermission, string(decision)).Inc()
	return updated.ToResponse(), nil
}

// Delete implements leave.PermissionService.
func (s *PermissionServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !approval.CanDelete(actor) {
		return user.ErrInsufficientPermissions
	}
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.permissionRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.permissionRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return recordDeletion(txCtx, s.auditRepo, actor, "permission_request", id, req.UserID)
	})
}
