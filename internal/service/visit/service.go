package visit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/metrics"
)

type VisitServiceImpl struct {
	tx        database.Transactor
	visitRepo visit.VisitRequestRepository
	userRepo  user.UserRepository
	auditRepo audit.AuditLogRepository
	now       func() time.Time
}

func NewVisitService(tx database.Transactor, visitRepo visit.VisitRequestRepository, userRepo user.UserRepository, auditRepo audit.AuditLogRepository) visit.VisitService {
	return &VisitServiceImpl{
		tx:        tx,
		visitRepo: visitRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// Create implements visit.VisitService.
func (s *VisitServiceImpl) Create(ctx context.Context, actor user.Actor, req visit.CreateVisitRequest) (visit.VisitRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return visit.VisitRequestResponse{}, err
	}
	date, err := cycle.ParseDate(req.Date)
	if err != nil {
		return visit.VisitRequestResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	created, err := s.visitRepo.Create(ctx, visit.VisitRequest{
		UserID:     actor.ID,
		Kind:       visit.Kind(req.Kind),
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   strings.TrimSpace(req.Location),
		Reason:     strings.TrimSpace(req.Reason),
		TargetBhID: req.TargetBhID,
		HRStatus:   approval.StatusPending,
		Status:     approval.StatusPending,
	})
	if err != nil {
		return visit.VisitRequestResponse{}, fmt.Errorf("failed to create visit request: %w", err)
	}

	metrics.RequestsCreated.WithLabelValues(strings.ToLower(string(created.Kind))+"_visit", "false").Inc()
	return created.ToResponse(), nil
}

// Get implements visit.VisitService.
func (s *VisitServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (visit.VisitRequestResponse, error) {
	req, err := s.visitRepo.GetByID(ctx, id)
	if err != nil {
		return visit.VisitRequestResponse{}, err
	}
	if req.UserID != actor.ID {
		owner, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return visit.VisitRequestResponse{}, err
		}
		if !user.ResolveScope(actor).Allows(owner) {
			return visit.VisitRequestResponse{}, user.ErrInsufficientPermissions
		}
	}
	return req.ToResponse(), nil
}

func toList(items []visit.VisitRequest, total int64, filter approval.ListFilter) visit.ListVisitRequestResponse {
	resp := visit.ListVisitRequestResponse{
		Requests:   make([]visit.VisitRequestResponse, 0, len(items)),
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

// ListMine implements visit.VisitService.
func (s *VisitServiceImpl) ListMine(ctx context.Context, actor user.Actor, kind *visit.Kind, filter approval.ListFilter) (visit.ListVisitRequestResponse, error) {
	filter.Normalize()
	items, total, err := s.visitRepo.ListByUser(ctx, actor.ID, kind, filter)
	if err != nil {
		return visit.ListVisitRequestResponse{}, fmt.Errorf("failed to list visit requests: %w", err)
	}
	return toList(items, total, filter), nil
}

// ListPending implements visit.VisitService. Only visit reviewers have a queue.
func (s *VisitServiceImpl) ListPending(ctx context.Context, actor user.Actor, kind *visit.Kind, filter approval.ListFilter) (visit.ListVisitRequestResponse, error) {
	if !actor.Role.IsAdminTier() {
		return visit.ListVisitRequestResponse{}, user.ErrInsufficientPermissions
	}
	filter.Normalize()
	items, total, err := s.visitRepo.ListPending(ctx, user.ResolveScope(actor), kind, filter)
	if err != nil {
		return visit.ListVisitRequestResponse{}, fmt.Errorf("failed to list pending visit requests: %w", err)
	}
	return toList(items, total, filter), nil
}

// Review implements visit.VisitService.
func (s *VisitServiceImpl) Review(ctx context.Context, actor user.Actor, id string, review approval.ReviewRequest) (visit.VisitRequestResponse, error) {
	if err := review.Validate(); err != nil {
		return visit.VisitRequestResponse{}, err
	}
	decision := approval.Status(review.Decision)

	var updated visit.VisitRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.visitRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		status, err := approval.ReviewVisit(actor, req.Status, decision)
		if err != nil {
			return err
		}

		now := s.now()
		reviewer := actor.ID
		req.HRStatus = status
		req.Status = status
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &now
		if review.Remarks != nil {
			req.ReviewRemarks = review.Remarks
		}
		if err := s.visitRepo.UpdateReview(txCtx, req); err != nil {
			return fmt.Errorf("failed to update visit request: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return visit.VisitRequestResponse{}, err
	}

	metrics.RequestReviews.WithLabelValues(strings.ToLower(string(updated.Kind))+"_visit", string(decision)).Inc()
	return updated.ToResponse(), nil
}

// Delete implements visit.VisitService.
func (s *VisitServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !approval.CanDelete(actor) {
		return user.ErrInsufficientPermissions
	}
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.visitRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.visitRepo.Delete(txCtx, id); err != nil {
			return err
		}

		actorID := actor.ID
		if _, err := s.auditRepo.Create(txCtx, audit.AuditLog{
			ActorID:    &actorID,
			Action:     audit.ActionRequestDeleted,
			EntityType: "visit_request",
			EntityID:   id,
			Details:    map[string]any{"owner_id": req.UserID, "visit_type": string(req.Kind)},
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}
