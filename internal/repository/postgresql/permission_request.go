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

const permissionRequestColumns = `
	pr.id, pr.user_id, pr.date, pr.start_time, pr.end_time, pr.reason, pr.target_bh_id,
	pr.bh_status, pr.hr_status, pr.status, pr.is_exceeded_limit,
	pr.reviewed_by, pr.reviewed_at, pr.review_remarks, pr.created_at, pr.updated_at,
	u.name`

type permissionRequestRepositoryImpl struct {
	db *database.DB
}

func NewPermissionRequestRepository(db *database.DB) leave.PermissionRequestRepository {
	return &permissionRequestRepositoryImpl{db: db}
}

func scanPermissionRequest(row pgx.Row) (leave.PermissionRequest, error) {
	var pr leave.PermissionRequest
	err := row.Scan(
		&pr.ID, &pr.UserID, &pr.Date, &pr.StartTime, &pr.EndTime, &pr.Reason, &pr.TargetBhID,
		&pr.BHStatus, &pr.HRStatus, &pr.Status, &pr.IsExceededLimit,
		&pr.ReviewedBy, &pr.ReviewedAt, &pr.ReviewRemarks, &pr.CreatedAt, &pr.UpdatedAt,
		&pr.UserName,
	)
	if err != nil {
		return leave.PermissionRequest{}, err
	}
	pr.Date = businessDate(pr.Date)
	return pr, nil
}

// Create implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) Create(ctx context.Context, request leave.PermissionRequest) (leave.PermissionRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return leave.PermissionRequest{}, fmt.Errorf("failed to generate permission request id: %w", err)
	}

	query := `
		INSERT INTO permission_requests (
			id, user_id, date, start_time, end_time, reason, target_bh_id,
			bh_status, hr_status, status, is_exceeded_limit
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		id,
		request.UserID,
		dateArg(request.Date),
		request.StartTime,
		request.EndTime,
		request.Reason,
		request.TargetBhID,
		request.BHStatus,
		request.HRStatus,
		request.Status,
		request.IsExceededLimit,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.PermissionRequest{}, fmt.Errorf("failed to create permission request: %w", err)
	}
	return request, nil
}

func (r *permissionRequestRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (leave.PermissionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + permissionRequestColumns + `
		FROM permission_requests pr
		JOIN users u ON u.id = pr.user_id
		WHERE pr.id = $1
	`
	if lock {
		query += " FOR UPDATE OF pr"
	}

	pr, err := scanPermissionRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.PermissionRequest{}, leave.ErrPermissionRequestNotFound
		}
		return leave.PermissionRequest{}, fmt.Errorf("failed to get permission request: %w", err)
	}
	return pr, nil
}

// GetByID implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.PermissionRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.PermissionRequest, error) {
	return r.getByID(ctx, id, true)
}

// ListByUser implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]leave.PermissionRequest, int64, error) {
	whereClause := "WHERE pr.user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND pr.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, filter)
}

// ListPending implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) ListPending(ctx context.Context, pq leave.PendingQuery) ([]leave.PermissionRequest, int64, error) {
	scopeClause, scopeArgs := pq.Scope.Filter("u", 2)
	whereClause := "WHERE pr.status = $1 AND " + scopeClause
	args := append([]interface{}{string(approval.StatusPending)}, scopeArgs...)
	argIndex := len(args) + 1

	if pq.BusinessHeadID != nil {
		whereClause += fmt.Sprintf(" AND pr.bh_status = $1 AND (pr.target_bh_id IS NULL OR pr.target_bh_id = $%d)", argIndex)
		args = append(args, *pq.BusinessHeadID)
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, pq.Filter)
}

func (r *permissionRequestRepositoryImpl) list(ctx context.Context, whereClause string, args []interface{}, argIndex int, filter approval.ListFilter) ([]leave.PermissionRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := "SELECT COUNT(*) FROM permission_requests pr JOIN users u ON u.id = pr.user_id " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count permission requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM permission_requests pr
		JOIN users u ON u.id = pr.user_id
		%s
		ORDER BY pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, permissionRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list permission requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.PermissionRequest
	for rows.Next() {
		pr, err := scanPermissionRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan permission request: %w", err)
		}
		requests = append(requests, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// CountInWindow implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) CountInWindow(ctx context.Context, userID string, from, to time.Time, statuses []approval.Status) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM permission_requests
		WHERE user_id = $1 AND date >= $2::date AND date <= $3::date AND status = ANY($4)
	`, userID, dateArg(from), dateArg(to), statusArgs(statuses)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count permission requests: %w", err)
	}
	return count, nil
}

// ExistsOnDate implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) ExistsOnDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM permission_requests
			WHERE user_id = $1 AND date = $2::date AND status <> $3
		)
	`, userID, dateArg(date), string(approval.StatusRejected)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check permission request: %w", err)
	}
	return exists, nil
}

// UpdateReview implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) UpdateReview(ctx context.Context, request leave.PermissionRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE permission_requests
		SET bh_status = $2, hr_status = $3, status = $4,
			reviewed_by = $5, reviewed_at = $6, review_remarks = $7, updated_at = NOW()
		WHERE id = $1
	`,
		request.ID,
		request.BHStatus,
		request.HRStatus,
		request.Status,
		request.ReviewedBy,
		request.ReviewedAt,
		request.ReviewRemarks,
	)
	if err != nil {
		return fmt.Errorf("failed to update permission request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrPermissionRequestNotFound
	}
	return nil
}

// Delete implements leave.PermissionRequestRepository.
func (r *permissionRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM permission_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete permission request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrPermissionRequestNotFound
	}
	return nil
}
