package wfh

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/metrics"
)

const metricKind = "wfh"

type WfhServiceImpl struct {
	tx database.Transactor
	wfh.WfhRequestRepository
	userRepo  user.UserRepository
	auditRepo audit.AuditLogRepository
}

func NewWfhService(tx database.Transactor, wfhRepo wfh.WfhRequestRepository, userRepo user.UserRepository, auditRepo audit.AuditLogRepository) wfh.WfhService {
	return &WfhServiceImpl{
		tx:                   tx,
		WfhRequestRepository: wfhRepo,
		userRepo:             userRepo,
		auditRepo:            auditRepo,
	}
}

// Create implements wfh.WfhService. New requests wait at the HR level.
func (s *WfhServiceImpl) Create(ctx context.Context, actor user.Actor, req wfh.CreateWfhRequest) (wfh.WfhRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return wfh.WfhRequestResponse{}, err
	}
	start, err := cycle.ParseDate(req.StartDate)
	if err != nil {
		return wfh.WfhRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := cycle.ParseDate(req.EndDate)
	if err != nil {
		return wfh.WfhRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	request := wfh.WfhRequest{
		UserID:     actor.ID,
		StartDate:  start,
		EndDate:    end,
		Reason:     strings.TrimSpace(req.Reason),
		TargetBhID: req.TargetBhID,
	}
	request.ApplyChain(approval.NewChain(req.TargetBhID))

	created, err := s.WfhRequestRepository.Create(ctx, request)
	if err != nil {
		return wfh.WfhRequestResponse{}, fmt.Errorf("failed to create wfh request: %w", err)
	}

	metrics.RequestsCreated.WithLabelValues(metricKind, "false").Inc()
	return created.ToResponse(), nil
}

// Get implements wfh.WfhService.
func (s *WfhServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (wfh.WfhRequestResponse, error) {
	req, err := s.WfhRequestRepository.GetByID(ctx, id)
	if err != nil {
		return wfh.WfhRequestResponse{}, err
	}
	if req.UserID != actor.ID {
		owner, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return wfh.WfhRequestResponse{}, err
		}
		if !user.ResolveScope(actor).Allows(owner) {
			return wfh.WfhRequestResponse{}, user.ErrInsufficientPermissions
		}
	}
	return req.ToResponse(), nil
}

func toList(items []wfh.WfhRequest, total int64, filter approval.ListFilter) wfh.ListWfhRequestResponse {
	resp := wfh.ListWfhRequestResponse{
		Requests:   make([]wfh.WfhRequestResponse, 0, len(items)),
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

// ListMine implements wfh.WfhService.
func (s *WfhServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter approval.ListFilter) (wfh.ListWfhRequestResponse, error) {
	filter.Normalize()
	items, total, err := s.WfhRequestRepository.ListByUser(ctx, actor.ID, filter)
	if err != nil {
		return wfh.ListWfhRequestResponse{}, fmt.Errorf("failed to list wfh requests: %w", err)
	}
	return toList(items, total, filter), nil
}

// ListPending implements wfh.WfhService. Reviewers only see requests waiting at their own level.
func (s *WfhServiceImpl) ListPending(ctx context.Context, actor user.Actor, filter approval.ListFilter) (wfh.ListWfhRequestResponse, error) {
	level, ok := approval.LevelFor(actor.Role)
	if !ok {
		return wfh.ListWfhRequestResponse{}, user.ErrInsufficientPermissions
	}
	filter.Normalize()
	items, total, err := s.WfhRequestRepository.ListAtLevel(ctx, level, user.ResolveScope(actor), filter)
	if err != nil {
		return wfh.ListWfhRequestResponse{}, fmt.Errorf("failed to list pending wfh requests: %w", err)
	}
	return toList(items, total, filter), nil
}

// Review implements wfh.WfhService.
func (s *WfhServiceImpl) Review(ctx context.Context, actor user.Actor, id string, review approval.ReviewRequest) (wfh.WfhRequestResponse, error) {
	if err := review.Validate(); err != nil {
		return wfh.WfhRequestResponse{}, err
	}
	decision := approval.Status(review.Decision)

	var updated wfh.WfhRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.WfhRequestRepository.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		owner, err := s.userRepo.GetByID(txCtx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to get request owner: %w", err)
		}

		actedAt := req.CurrentLevel
		next, err := approval.ReviewChain(actor, owner, req.Chain(), decision)
		if err != nil {
			return err
		}

		req.ApplyChain(next)
		if review.Remarks != nil {
			req.ReviewRemarks = review.Remarks
		}
		if err := s.WfhRequestRepository.UpdateReview(txCtx, req, actedAt, actor.ID); err != nil {
			return fmt.Errorf("failed to update wfh request: %w", err)
		}
		updated = req
		return nil
	})
	if err != nil {
		return wfh.WfhRequestResponse{}, err
	}

	metrics.RequestReviews.WithLabelValues(metricKind, string(decision)).Inc()
	slog.Info("WFH request reviewed", "wfh_request_id", id, "reviewer_id", actor.ID, "level", updated.CurrentLevel, "status", updated.Status)
	return updated.ToResponse(), nil
}

// Delete implements wfh.WfhService.
func (s *WfhServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if !approval.CanDelete(actor) {
		return user.ErrInsufficientPermissions
	}
	return s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.WfhRequestRepository.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.WfhRequestRepository.Delete(txCtx, id); err != nil {
			return err
		}

		actorID := actor.ID
		_, err = s.auditRepo.Create(txCtx, audit.AuditLog{
			ActorID:    &actorID,
			Action:     audit.ActionRequestDeleted,
			EntityType: "wfh_request",
			EntityID:   id,
			Details:    map[string]any{"owner_id": req.UserID, "status": string(req.Status)},
		})
		return err
	})
}
