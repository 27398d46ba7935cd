package payroll

import "context"

// SettingsRepository reads global_settings rows.
type SettingsRepository interface {
	// GetBool returns the boolean value of key, or ErrSettingNotFound.
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}
