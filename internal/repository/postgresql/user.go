package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.phone, u.role, u.designation, u.status, u.reporting_bh_id,
	u.allocated_salary, u.salary_deductions, u.salary_deduction_breakdown,
	u.salary_view_enabled, u.time_shortage_deduction_enabled,
	u.created_at, u.updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Role,
		&u.Designation,
		&u.Status,
		&u.ReportingBhID,
		&u.AllocatedSalary,
		&u.SalaryDeductions,
		&u.SalaryDeductionBreakdown,
		&u.SalaryViewEnabled,
		&u.TimeShortageDeductionEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepositoryImpl) queryOne(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	u, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	id, err := newID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	query := `
		INSERT INTO users AS u (
			id, name, email, password_hash, phone, role, designation, status, reporting_bh_id,
			allocated_salary, salary_deductions, salary_deduction_breakdown,
			salary_view_enabled, time_shortage_deduction_enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING` + userColumns

	created, err := r.queryOne(ctx, query,
		id,
		newUser.Name,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Phone,
		newUser.Role,
		newUser.Designation,
		newUser.Status,
		newUser.ReportingBhID,
		newUser.AllocatedSalary,
		newUser.SalaryDeductions,
		newUser.SalaryDeductionBreakdown,
		newUser.SalaryViewEnabled,
		newUser.TimeShortageDeductionEnabled,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.queryOne(ctx, `SELECT`+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.queryOne(ctx, `SELECT`+userColumns+` FROM users u WHERE LOWER(u.email) = LOWER($1)`, email)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, scope user.Scope, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	scopeClause, args := scope.Filter("u", 1)
	whereClause := "WHERE " + scopeClause
	argIndex := len(args) + 1

	if filter.Search != "" {
		whereClause += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}
	if filter.Role != nil {
		whereClause += fmt.Sprintf(" AND u.role = $%d", argIndex)
		args = append(args, string(*filter.Role))
		argIndex++
	}
	if filter.Designation != nil {
		whereClause += fmt.Sprintf(" AND u.designation = $%d", argIndex)
		args = append(args, string(*filter.Designation))
		argIndex++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND u.status = $%d", argIndex)
		args = append(args, string(*filter.Status))
		argIndex++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM users u "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users u %s ORDER BY u.name ASC LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	query := `
		UPDATE users AS u
		SET name = COALESCE($2, u.name), phone = COALESCE($3, u.phone), updated_at = NOW()
		WHERE u.id = $1
		RETURNING` + userColumns
	return r.queryOne(ctx, query, id, req.Name, req.Phone)
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id string, req user.UpdateRoleRequest) (user.User, error) {
	query := `
		UPDATE users AS u
		SET role = $2,
			designation = COALESCE($3, u.designation),
			reporting_bh_id = COALESCE($4, u.reporting_bh_id),
			updated_at = NOW()
		WHERE u.id = $1
		RETURNING` + userColumns
	return r.queryOne(ctx, query, id, req.Role, req.Designation, req.ReportingBhID)
}

// UpdateSalaryConfig implements user.UserRepository.
func (r *userRepositoryImpl) UpdateSalaryConfig(ctx context.Context, id string, req user.UpdateSalaryConfigRequest) (user.User, error) {
	query := `
		UPDATE users AS u
		SET allocated_salary = $2,
			salary_deductions = $3,
			salary_deduction_breakdown = $4,
			salary_view_enabled = $5,
			time_shortage_deduction_enabled = $6,
			updated_at = NOW()
		WHERE u.id = $1
		RETURNING` + userColumns
	return r.queryOne(ctx, query, id,
		req.AllocatedSalary,
		req.SalaryDeductions,
		req.SalaryDeductionBreakdown,
		req.SalaryViewEnabled,
		req.TimeShortageDeductionEnabled,
	)
}

// UpdateStatus implements user.UserRepository.
func (r *userRepositoryImpl) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository. Owned rows go through ON DELETE CASCADE.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListActiveEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveEmployees(ctx context.Context, createdBefore time.Time) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT`+userColumns+`
		FROM users u
		WHERE u.status = $1 AND u.role = $2 AND u.created_at <= $3
		ORDER BY u.created_at ASC
	`, user.StatusActive, user.RoleEmployee, createdBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT`+userColumns+` FROM users u WHERE u.status = $1 ORDER BY u.name ASC`, user.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}
