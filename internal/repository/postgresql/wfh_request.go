package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/wfh"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const wfhRequestColumns = `
	w.id, w.user_id, w.start_date, w.end_date, w.reason, w.target_bh_id, w.current_level,
	w.hr_status, w.bh_status, w.admin_status, w.status, w.review_remarks,
	w.created_at, w.updated_at, u.name`

// reviewer column per chain level
var wfhReviewerColumn = map[approval.Level]string{
	approval.LevelHR:           "hr_reviewed_by",
	approval.LevelBusinessHead: "bh_reviewed_by",
	approval.LevelAdmin:        "admin_reviewed_by",
}

type wfhRequestRepositoryImpl struct {
	db *database.DB
}

func NewWfhRequestRepository(db *database.DB) wfh.WfhRequestRepository {
	return &wfhRequestRepositoryImpl{db: db}
}

func scanWfhRequest(row pgx.Row) (wfh.WfhRequest, error) {
	var w wfh.WfhRequest
	err := row.Scan(
		&w.ID, &w.UserID, &w.StartDate, &w.EndDate, &w.Reason, &w.TargetBhID, &w.CurrentLevel,
		&w.HRStatus, &w.BHStatus, &w.AdminStatus, &w.Status, &w.ReviewRemarks,
		&w.CreatedAt, &w.UpdatedAt, &w.UserName,
	)
	if err != nil {
		return wfh.WfhRequest{}, err
	}
	w.StartDate = businessDate(w.StartDate)
	w.EndDate = businessDate(w.EndDate)
	return w, nil
}

// Create implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) Create(ctx context.Context, request wfh.WfhRequest) (wfh.WfhRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return wfh.WfhRequest{}, fmt.Errorf("failed to generate wfh request id: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO wfh_requests (
			id, user_id, start_date, end_date, reason, target_bh_id, current_level,
			hr_status, bh_status, admin_status, status
		) VALUES ($1, $2, $3::date, $4::date, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		id,
		request.UserID,
		dateArg(request.StartDate),
		dateArg(request.EndDate),
		request.Reason,
		request.TargetBhID,
		request.CurrentLevel,
		request.HRStatus,
		request.BHStatus,
		request.AdminStatus,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return wfh.WfhRequest{}, fmt.Errorf("failed to create wfh request: %w", err)
	}
	return request, nil
}

func (r *wfhRequestRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (wfh.WfhRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + wfhRequestColumns + `
		FROM wfh_requests w
		JOIN users u ON u.id = w.user_id
		WHERE w.id = $1
	`
	if lock {
		query += " FOR UPDATE OF w"
	}

	w, err := scanWfhRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wfh.WfhRequest{}, wfh.ErrWfhRequestNotFound
		}
		return wfh.WfhRequest{}, fmt.Errorf("failed to get wfh request: %w", err)
	}
	return w, nil
}

// GetByID implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) GetByID(ctx context.Context, id string) (wfh.WfhRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (wfh.WfhRequest, error) {
	return r.getByID(ctx, id, true)
}

// ListByUser implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) ListByUser(ctx context.Context, userID string, filter approval.ListFilter) ([]wfh.WfhRequest, int64, error) {
	whereClause := "WHERE w.user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND w.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, filter)
}

// ListAtLevel implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) ListAtLevel(ctx context.Context, level approval.Level, scope user.Scope, filter approval.ListFilter) ([]wfh.WfhRequest, int64, error) {
	scopeClause, scopeArgs := scope.Filter("u", 3)
	whereClause := "WHERE w.status = $1 AND w.current_level = $2 AND " + scopeClause
	args := append([]interface{}{string(approval.StatusPending), int(level)}, scopeArgs...)

	return r.list(ctx, whereClause, args, len(args)+1, filter)
}

func (r *wfhRequestRepositoryImpl) list(ctx context.Context, whereClause string, args []interface{}, argIndex int, filter approval.ListFilter) ([]wfh.WfhRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := "SELECT COUNT(*) FROM wfh_requests w JOIN users u ON u.id = w.user_id " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wfh requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM wfh_requests w
		JOIN users u ON u.id = w.user_id
		%s
		ORDER BY w.created_at DESC
		LIMIT $%d OFFSET $%d
	`, wfhRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wfh requests: %w", err)
	}
	defer rows.Close()

	var requests []wfh.WfhRequest
	for rows.Next() {
		w, err := scanWfhRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan wfh request: %w", err)
		}
		requests = append(requests, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateReview implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) UpdateReview(ctx context.Context, request wfh.WfhRequest, actedAt approval.Level, reviewerID string) error {
	column, ok := wfhReviewerColumn[actedAt]
	if !ok {
		return fmt.Errorf("unknown review level %d", actedAt)
	}

	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE wfh_requests
		SET current_level = $2, hr_status = $3, bh_status = $4, admin_status = $5, status = $6,
			review_remarks = COALESCE($7, review_remarks), %s = $8, updated_at = NOW()
		WHERE id = $1
	`, column)

	tag, err := q.Exec(ctx, query,
		request.ID,
		int(request.CurrentLevel),
		request.HRStatus,
		request.BHStatus,
		request.AdminStatus,
		request.Status,
		request.ReviewRemarks,
		reviewerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update wfh request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wfh.ErrWfhRequestNotFound
	}
	return nil
}

// Delete implements wfh.WfhRequestRepository.
func (r *wfhRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM wfh_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete wfh request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return wfh.ErrWfhRequestNotFound
	}
	return nil
}
