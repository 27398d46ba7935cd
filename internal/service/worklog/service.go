package worklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cycle"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type WorkLogServiceImpl struct {
	tx database.Transactor
	worklog.WorkLogRepository
	userRepo user.UserRepository
	now      func() time.Time
}

func NewWorkLogService(tx database.Transactor, workLogRepo worklog.WorkLogRepository, userRepo user.UserRepository) worklog.WorkLogService {
	return &WorkLogServiceImpl{
		tx:                tx,
		WorkLogRepository: workLogRepo,
		userRepo:          userRepo,
		now:               time.Now,
	}
}

// Upsert implements worklog.WorkLogService. Saving without submit keeps the
// log OPEN; submitting requires every field of the user's designation.
func (s *WorkLogServiceImpl) Upsert(ctx context.Context, actor user.Actor, req worklog.UpsertWorkLogRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, err
	}
	workDate, err := cycle.ParseDate(req.WorkDate)
	if err != nil {
		return worklog.WorkLogResponse{}, fmt.Errorf("failed to parse work date: %w", err)
	}
	now := s.now()
	if cycle.DaysBetween(now, workDate) > 0 {
		return worklog.WorkLogResponse{}, worklog.ErrFutureWorkDate
	}

	owner, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}

	if req.Submit {
		if missing := worklog.MissingFields(owner.Designation, req.Fields); len(missing) > 0 {
			var errs validator.ValidationErrors
			for _, name := range missing {
				errs = append(errs, validator.ValidationError{
					Field:   "fields." + name,
					Message: name + " is required to submit",
				})
			}
			return worklog.WorkLogResponse{}, errs
		}
	}

	var saved worklog.WorkLog
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.WorkLogRepository.GetByUserAndDate(txCtx, actor.ID, workDate)
		switch {
		case err == nil:
			switch existing.Status {
			case worklog.StatusAutoClosed:
				return worklog.ErrWorkLogClosed
			case worklog.StatusSubmitted:
				return worklog.ErrWorkLogAlreadySubmitted
			}
		case !errors.Is(err, worklog.ErrWorkLogNotFound):
			return fmt.Errorf("failed to get work log: %w", err)
		}

		entry := worklog.WorkLog{
			UserID:      actor.ID,
			WorkDate:    workDate,
			Designation: owner.Designation,
			Status:      worklog.StatusOpen,
			Fields:      req.Fields,
		}
		if entry.Fields == nil {
			entry.Fields = worklog.Fields{}
		}
		if req.Submit {
			entry.Status = worklog.StatusSubmitted
			entry.SubmittedAt = &now
		}

		saved, err = s.WorkLogRepository.Upsert(txCtx, entry)
		if err != nil {
			return fmt.Errorf("failed to save work log: %w", err)
		}
		return nil
	})
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}
	return saved.ToResponse(), nil
}

// ListMine implements worklog.WorkLogService. Empty bounds mean the current cycle.
func (s *WorkLogServiceImpl) ListMine(ctx context.Context, actor user.Actor, from, to string) ([]worklog.WorkLogResponse, error) {
	q := attendance.WindowQuery{From: from, To: to}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	start, end, err := q.Bounds(s.now())
	if err != nil {
		return nil, err
	}

	logs, err := s.WorkLogRepository.ListByUser(ctx, actor.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}
	resp := make([]worklog.WorkLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, l.ToResponse())
	}
	return resp, nil
}
