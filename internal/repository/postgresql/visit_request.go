package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/approval"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const visitRequestColumns = `
	vr.id, vr.user_id, vr.visit_type, vr.date, vr.start_time, vr.end_time, vr.location, vr.reason,
	vr.target_bh_id, vr.hr_status, vr.status, vr.reviewed_by, vr.reviewed_at, vr.review_remarks,
	vr.created_at, vr.updated_at, u.name`

type visitRequestRepositoryImpl struct {
	db *database.DB
}

func NewVisitRequestRepository(db *database.DB) visit.VisitRequestRepository {
	return &visitRequestRepositoryImpl{db: db}
}

func scanVisitRequest(row pgx.Row) (visit.VisitRequest, error) {
	var vr visit.VisitRequest
	err := row.Scan(
		&vr.ID, &vr.UserID, &vr.Kind, &vr.Date, &vr.StartTime, &vr.EndTime, &vr.Location, &vr.Reason,
		&vr.TargetBhID, &vr.HRStatus, &vr.Status, &vr.ReviewedBy, &vr.ReviewedAt, &vr.ReviewRemarks,
		&vr.CreatedAt, &vr.UpdatedAt, &vr.UserName,
	)
	if err != nil {
		return visit.VisitRequest{}, err
	}
	vr.Date = businessDate(vr.Date)
	return vr, nil
}

// Create implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) Create(ctx context.Context, request visit.VisitRequest) (visit.VisitRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return visit.VisitRequest{}, fmt.Errorf("failed to generate visit request id: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO visit_requests (
			id, user_id, visit_type, date, start_time, end_time, location, reason,
			target_bh_id, hr_status, status
		) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`,
		id,
		request.UserID,
		request.Kind,
		dateArg(request.Date),
		request.StartTime,
		request.EndTime,
		request.Location,
		request.Reason,
		request.TargetBhID,
		request.HRStatus,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return visit.VisitRequest{}, fmt.Errorf("failed to create visit request: %w", err)
	}
	return request, nil
}

func (r *visitRequestRepositoryImpl) getByID(ctx context.Context, id string, lock bool) (visit.VisitRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + visitRequestColumns + `
		FROM visit_requests vr
		JOIN users u ON u.id = vr.user_id
		WHERE vr.id = $1
	`
	if lock {
		query += " FOR UPDATE OF vr"
	}

	vr, err := scanVisitRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visit.VisitRequest{}, visit.ErrVisitRequestNotFound
		}
		return visit.VisitRequest{}, fmt.Errorf("failed to get visit request: %w", err)
	}
	return vr, nil
}

// GetByID implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) GetByID(ctx context.Context, id string) (visit.VisitRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (visit.VisitRequest, error) {
	return r.getByID(ctx, id, true)
}

// ListByUser implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) ListByUser(ctx context.Context, userID string, kind *visit.Kind, filter approval.ListFilter) ([]visit.VisitRequest, int64, error) {
	whereClause := "WHERE vr.user_id = $1"
	args := []interface{}{userID}
	argIndex := 2

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND vr.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}
	if kind != nil {
		whereClause += fmt.Sprintf(" AND vr.visit_type = $%d", argIndex)
		args = append(args, string(*kind))
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, filter)
}

// ListPending implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) ListPending(ctx context.Context, scope user.Scope, kind *visit.Kind, filter approval.ListFilter) ([]visit.VisitRequest, int64, error) {
	scopeClause, scopeArgs := scope.Filter("u", 2)
	whereClause := "WHERE vr.status = $1 AND " + scopeClause
	args := append([]interface{}{string(approval.StatusPending)}, scopeArgs...)
	argIndex := len(args) + 1

	if kind != nil {
		whereClause += fmt.Sprintf(" AND vr.visit_type = $%d", argIndex)
		args = append(args, string(*kind))
		argIndex++
	}

	return r.list(ctx, whereClause, args, argIndex, filter)
}

func (r *visitRequestRepositoryImpl) list(ctx context.Context, whereClause string, args []interface{}, argIndex int, filter approval.ListFilter) ([]visit.VisitRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := "SELECT COUNT(*) FROM visit_requests vr JOIN users u ON u.id = vr.user_id " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count visit requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM visit_requests vr
		JOIN users u ON u.id = vr.user_id
		%s
		ORDER BY vr.date DESC, vr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, visitRequestColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list visit requests: %w", err)
	}
	defer rows.Close()

	var requests []visit.VisitRequest
	for rows.Next() {
		vr, err := scanVisitRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan visit request: %w", err)
		}
		requests = append(requests, vr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateReview implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) UpdateReview(ctx context.Context, request visit.VisitRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE visit_requests
		SET hr_status = $2, status = $3, reviewed_by = $4, reviewed_at = $5, review_remarks = $6, updated_at = NOW()
		WHERE id = $1
	`, request.ID, request.HRStatus, request.Status, request.ReviewedBy, request.ReviewedAt, request.ReviewRemarks)
	if err != nil {
		return fmt.Errorf("failed to update visit request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return visit.ErrVisitRequestNotFound
	}
	return nil
}

// Delete implements visit.VisitRequestRepository.
func (r *visitRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, "DELETE FROM visit_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete visit request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return visit.ErrVisitRequestNotFound
	}
	return nil
}
