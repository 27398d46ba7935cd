package payroll

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
)

type PayrollService interface {
	MySalary(ctx context.Context, actor user.Actor, sel Selector) (Salary, error)
	UserSalary(ctx context.Context, actor user.Actor, userID string, sel Selector) (Salary, error)
	// Report renders every active user's salary for the cycle labelled month/year as XLSX.
	Report(ctx context.Context, actor user.Actor, sel Selector) ([]byte, string, error)
	GetSettings(ctx context.Context, actor user.Actor) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, actor user.Actor, req UpdateSettingsRequest) (SettingsResponse, error)
}
