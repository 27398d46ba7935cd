package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) payroll.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetBool implements payroll.SettingsRepository.
func (r *settingsRepositoryImpl) GetBool(ctx context.Context, key string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var raw string
	err := q.QueryRow(ctx, "SELECT value FROM global_settings WHERE key = $1", key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, payroll.ErrSettingNotFound
		}
		return false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("setting %s is not a boolean: %w", key, err)
	}
	return value, nil
}

// SetBool implements payroll.SettingsRepository.
func (r *settingsRepositoryImpl) SetBool(ctx context.Context, key string, value bool) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO global_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, strconv.FormatBool(value))
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
