package payroll

import "errors"

var (
	ErrSalaryViewDisabled = errors.New("salary details are not available yet, please come back next cycle")
	ErrSettingNotFound    = errors.New("setting not found")
)
