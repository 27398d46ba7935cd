package leave

import (
	"context"
	"fmt"
	"log/slog"
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
)

const (
	kindLeave      = "leave"
	kindPermission = "permission"
)

// pendingQuery resolves the review queue an actor sees. Business heads only see
// requests still waiting on the business-head tier.
func pendingQuery(actor user.Actor, filter approval.ListFilter) (leave.PendingQuery, error) {
	q := leave.PendingQuery{Scope: user.ResolveScope(actor), Filter: filter}
	switch {
	case actor.Role.IsAdminTier():
	case actor.Role.IsBHTier():
		id := actor.ID
		q.BusinessHeadID = &id
	default:
		return q, user.ErrInsufficientPermissions
	}
	return q, nil
}

func recordDeletion(ctx context.Context, repo audit.AuditLogRepository, actor user.Actor, entityType, id, ownerID string) error {
	actorID := actor.ID
	_, err := repo.Create(ctx, audit.AuditLog{
		ActorID:    &actorID,
		Action:     audit.ActionRequestDeleted,
		EntityType: entityType,
		EntityID:   id,
		Details:    map[string]any{"owner_id": ownerID},
	})
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

type LeaveServiceImpl struct {
	tx        database.Transactor
	leaveRepo leave.LeaveRequestRepository
	userRepo  user.UserRepository
	auditRepo audit.AuditLogRepository
	limits    *LimitEvaluator
	now       func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	userRepo user.UserRepository,
	auditRepo audit.AuditLogRepository,
	limits *LimitEvaluator,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:        tx,
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		limits:    limits,
		now:       time.Now,
	}
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	start, err := cycle.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := cycle.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	state := approval.NewTwoTier(req.TargetBhID)
	candidate := leave.LeaveRequest{
		UserID:     actor.ID,
		Kind:       leave.Kind(req.Kind),
		StartDate:  start,
		EndDate:    end,
		Reason:     strings.TrimSpace(req.Reason),
		TargetBhID: req.TargetBhID,
		BHStatus:   state.BHStatus,
		HRStatus:   state.HRStatus,
		Status:     state.Status,
	}

	var created leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		exceeded, err := s.limits.LeaveExceeded(txCtx, candidate)
		if err != nil {
			return err
		}
		candidate.IsExceededLimit = exceeded

		created, err = s.leaveRepo.Create(txCtx, candidate)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RequestsCreated.WithLabelValues(kindLeave, strconv.FormatBool(created.IsExceededLimit)).Inc()
	if created.IsExceededLimit {
		slog.Info("Leave request exceeds cycle limit", "user_id", actor.ID, "leave_request_id", created.ID)
	}
	return created.ToResponse(), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.LeaveRequestResponse, error) {
	req, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if req.UserID != actor.ID {
		owner, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if !user.ResolveScope(actor).Allows(owner) {
			return leave.LeaveRequestResponse{}, user.ErrInsufficientPermissions
		}
	}
	return req.ToResponse(), nil
}

func toLeaveList(items []leave.LeaveRequest, total int64, filter approval.ListFilter) leave.ListLeaveRequestResponse {
	resp := leave.ListLeaveRequestResponse{
		Requests:   make([]leave.LeaveRequestResponse, 0, len(items)),
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

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (leave.ListLeaveRequestResponse, error) {
	filter.Normalize()
	items, total, err := s.leaveRepo.ListByUser(ctx, actor.ID, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toLeaveList(items, total, filter), nil
}

// ListPending implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (leave.ListLeaveRequestResponse, error) {
	filter.Normalize()
	q, err := pendingQuery(actor, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	items, total, err := s.leaveRepo.ListPending(ctx, q)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return toLeaveList(items, total, filter), nil
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, actor user.Actor, id string, review approval.ReviewRequest) (leave.LeaveRequestResponse, error) {
	if err := review.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	decision := approval.Status(review.Decision)

	var updated leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.leaveRepo.GetByIDForUpdate(txCtx, id)
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
		if err := s.leaveRepo.UpdateReview(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.RequestReviews.WithLabelValues(kindLeave, string(decision)).Inc()
	slog.Info("Leave request reviewed", "leave_request_id", id, "reviewer_id", actor.ID, "decision", decision, "status", updated.Status)
	return updated.ToResponse(), nil
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !approval.CanDelete(actor) {
		return user.ErrInsufficientPermissions
	}
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.leaveRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.leaveRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return recordDeletion(txCtx, s.auditRepo, actor, "leave_request", id, req.UserID)
	})
}
