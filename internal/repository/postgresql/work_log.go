package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const workLogColumns = `id, user_id, work_date, designation, status, fields, submitted_at, created_at, updated_at`

type workLogRepositoryImpl struct {
	db *database.DB
}

func NewWorkLogRepository(db *database.DB) worklog.WorkLogRepository {
	return &workLogRepositoryImpl{db: db}
}

func scanWorkLog(row pgx.Row) (worklog.WorkLog, error) {
	var wl worklog.WorkLog
	err := row.Scan(
		&wl.ID, &wl.UserID, &wl.WorkDate, &wl.Designation, &wl.Status, &wl.Fields,
		&wl.SubmittedAt, &wl.CreatedAt, &wl.UpdatedAt,
	)
	if err != nil {
		return worklog.WorkLog{}, err
	}
	wl.WorkDate = businessDate(wl.WorkDate)
	return wl, nil
}

// GetByUserAndDate implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	wl, err := scanWorkLog(q.QueryRow(ctx, `
		SELECT `+workLogColumns+`
		FROM work_logs
		WHERE user_id = $1 AND work_date = $2::date
	`, userID, dateArg(workDate)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worklog.WorkLog{}, worklog.ErrWorkLogNotFound
		}
		return worklog.WorkLog{}, fmt.Errorf("failed to get work log: %w", err)
	}
	return wl, nil
}

// Upsert implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Upsert(ctx context.Context, wl worklog.WorkLog) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("failed to generate work log id: %w", err)
	}

	saved, err := scanWorkLog(q.QueryRow(ctx, `
		INSERT INTO work_logs (id, user_id, work_date, designation, status, fields, submitted_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		ON CONFLICT (user_id, work_date) DO UPDATE
		SET designation = EXCLUDED.designation,
			status = EXCLUDED.status,
			fields = EXCLUDED.fields,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = NOW()
		RETURNING `+workLogColumns,
		id,
		wl.UserID,
		dateArg(wl.WorkDate),
		wl.Designation,
		wl.Status,
		wl.Fields,
		wl.SubmittedAt,
	))
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("failed to save work log: %w", err)
	}
	return saved, nil
}

// ListByUser implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+workLogColumns+`
		FROM work_logs
		WHERE user_id = $1 AND work_date >= $2::date AND work_date <= $3::date
		ORDER BY work_date DESC
	`, userID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}
	defer rows.Close()

	var logs []worklog.WorkLog
	for rows.Next() {
		wl, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work log: %w", err)
		}
		logs = append(logs, wl)
	}
	return logs, rows.Err()
}

// CountSubmittedDays implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) CountSubmittedDays(ctx context.Context, userID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(DISTINCT work_date)
		FROM work_logs
		WHERE user_id = $1 AND status = $2 AND work_date >= $3::date AND work_date <= $4::date
	`, userID, worklog.StatusSubmitted, dateArg(from), dateArg(to)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count work logs: %w", err)
	}
	return count, nil
}

// CloseStaleOpen implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) CloseStaleOpen(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE work_logs SET status = $1, updated_at = NOW()
		WHERE status = $2 AND work_date < $3::date
	`, worklog.StatusAutoClosed, worklog.StatusOpen, dateArg(before))
	if err != nil {
		return 0, fmt.Errorf("failed to close work logs: %w", err)
	}
	return tag.RowsAffected(), nil
}
