package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	lr.id, lr.user_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason, lr.target_bh_id,
	lr.bh_status, lr.hr_status, lr.status, lr.is_exceeded_limit,
	lr.reviewed_by, lr.reviewed_at, lr.review_remarks, lr.created_at, lr.updated_at,
	u.name`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.UserID, &lr.Kind, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.TargetBhID,
		&lr.BHStatus, &lr.HRStatus, &lr.Status, &lr.IsExceededLimit,
		&lr.ReviewedBy, &lr.ReviewedAt, &lr.ReviewRemarks, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.UserName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.StartDate = businessDate(lr.StartDate)
	lr.EndDate = businessDate(lr.EndDate)
	return lr, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()
	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	query := `
		INSERT INTO leave_requests (
			id, user_id, leave_type, start_date, end_date, reason, target_bh_id,
			bh_status, hr_status, status, is_exceeded_limit
		) VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id,
		request.UserID,
		request.Kind,
		dateArg(request.StartDate),
		dateArg(request.EndDate),
		request.Reason,
		request.TargetBhID,
		request.BHStatus,
		request.HRStatus,
		request.Status,
		request.IsExceededLimit,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE lr.id = $1
	`
	if lock {
		query += " FOR UPDATE OF lr"
	}

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.getByID(ctx, id, true)
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]leave.LeaveRequest, int64, error) {
	whereClause := "WHERE lr.user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND lr.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, filter)
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context, pq leave.PendingQuery) ([]leave.LeaveRequest, int64, error) {
	scopeClause, scopeArgs := pq.Scope.Filter("u", 2)
	whereClause := "WHERE lr.status = $1 AND " + scopeClause
	args := append([]interface{}{string(approval.StatusPending)}, scopeArgs...)
	argIndex := len(args) + 1

	if pq.BusinessHeadID != nil {
		whereClause += fmt.Sprintf(" AND lr.bh_status = $1 AND (lr.target_bh_id IS NULL OR lr.target_bh_id = $%d)", argIndex)
		args = append(args, *pq.BusinessHeadID)
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, pq.Filter)
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, whereClause string, args []interface{}, argIndex int, filter approval.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	countQuery := "SELECT COUNT(*) FROM leave_requests lr JOIN users u ON u.id = lr.user_id " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		%s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// ListOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListOverlapping(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN users u ON u.id = lr.user_id
		WHERE lr.user_id = $1
		  AND lr.start_date <= $3::date
		  AND lr.end_date >= $2::date
		  AND lr.status = ANY($4)
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, userID, dateArg(from), dateArg(to), statusArgs(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// UpdateReview implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateReview(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET bh_status = $2, hr_status = $3, status = $4,
			reviewed_by = $5, reviewed_at = $6, review_remarks = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		request.ID,
		request.BHStatus,
		request.HRStatus,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
		request.ReviewRemarks,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM leave_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
