package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const breakLogColumns = `b.id, b.attendance_id, b.break_type, b.start_time, b.end_time, b.duration, b.created_at, a.user_id`

type breakLogRepository struct {
	db *database.DB
}

func NewBreakLogRepository(db *database.DB) attendance.BreakLogRepository {
	return &breakLogRepository{db: db}
}

func scanBreakLog(row pgx.Row) (attendance.BreakLog, error) {
	var b attendance.BreakLog
	err := row.Scan(&b.ID, &b.AttendanceID, &b.BreakType, &b.StartTime, &b.EndTime, &b.Duration, &b.CreatedAt, &b.UserID)
	return b, err
}

// Create implements attendance.BreakLogRepository.
func (r *breakLogRepository) Create(ctx context.Context, b attendance.BreakLog) (attendance.BreakLog, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.BreakLog{}, fmt.Errorf("failed to generate break id: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO break_logs (id, attendance_id, break_type, start_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, id, b.AttendanceID, b.BreakType, b.StartTime).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return attendance.BreakLog{}, fmt.Errorf("failed to create break: %w", err)
	}
	return b, nil
}

// GetOpenByAttendance implements attendance.BreakLogRepository.
func (r *breakLogRepository) GetOpenByAttendance(ctx context.Context, attendanceID string) (attendance.BreakLog, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBreakLog(q.QueryRow(ctx, `
		SELECT `+breakLogColumns+`
		FROM break_logs b
		JOIN attendances a ON a.id = b.attendance_id
		WHERE b.attendance_id = $1 AND b.end_time IS NULL
		ORDER BY b.start_time DESC
		LIMIT 1
		FOR UPDATE OF b
	`, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BreakLog{}, attendance.ErrNoOpenBreak
		}
		return attendance.BreakLog{}, fmt.Errorf("failed to get open break: %w", err)
	}
	return b, nil
}

// Close implements attendance.BreakLogRepository.
func (r *breakLogRepository) Close(ctx context.Context, id string, endTime time.Time, duration int) (attendance.BreakLog, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBreakLog(q.QueryRow(ctx, `
		WITH closed AS (
			UPDATE break_logs SET end_time = $2, duration = $3
			WHERE id = $1 AND end_time IS NULL
			RETURNING *
		)
		SELECT `+breakLogColumns+`
		FROM closed b
		JOIN attendances a ON a.id = b.attendance_id
	`, id, endTime, duration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BreakLog{}, attendance.ErrNoOpenBreak
		}
		return attendance.BreakLog{}, fmt.Errorf("failed to close break: %w", err)
	}
	return b, nil
}

// ListOpenStartedBefore implements attendance.BreakLogRepository.
func (r *breakLogRepository) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]attendance.BreakLog, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+breakLogColumns+`
		FROM break_logs b
		JOIN attendances a ON a.id = b.attendance_id
		WHERE b.end_time IS NULL AND b.start_time < $1
		ORDER BY b.start_time ASC
	`, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.BreakLog
	for rows.Next() {
		b, err := scanBreakLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}
