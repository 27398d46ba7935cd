package payroll

import (
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Formula constants.
const (
	GraceAbsentDays        = 4
	DailyDivisor           = 30
	HourlyDivisor          = 240
	ExpectedHoursPerDay    = 8
	PermissionCreditHours  = 2
	MaxCreditedPermissions = 4
)

// SettingTimeShortageDeduction is the global_settings key of the shortage toggle.
const SettingTimeShortageDeduction = "time_shortage_deduction_enabled"

type CycleInfo struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Label     string `json:"label"`
	Month     int    `json:"month"`
	Year      int    `json:"year"`
	TotalDays int    `json:"totalDays"`
	IsClosed  bool   `json:"isClosed"`
}

type Stats struct {
	PresentDays           int             `json:"presentDays"`
	AbsentDays            int             `json:"absentDays"`
	LopDays               int             `json:"lopDays"`
	ApprovedLeaves        float64         `json:"approvedLeaves"`
	ApprovedPermissions   int             `json:"approvedPermissions"`
	ActualWorkingHours    decimal.Decimal `json:"actualWorkingHours"`
	ExpectedHours         decimal.Decimal `json:"expectedHours"`
	PermissionCreditHours decimal.Decimal `json:"permissionCreditHours"`
	ShortageHours         decimal.Decimal `json:"shortageHours"`
	TimeShortageApplied   bool            `json:"timeShortageApplied"`
}

type Financials struct {
	AllocatedSalary      decimal.Decimal         `json:"allocatedSalary"`
	AbsenteeismDeduction decimal.Decimal         `json:"absenteeismDeduction"`
	ShortageDeduction    decimal.Decimal         `json:"shortageDeduction"`
	ManualDeductions     decimal.Decimal         `json:"manualDeductions"`
	DeductionItems       user.DeductionBreakdown `json:"deductionItems"`
	LegacyDeduction      decimal.Decimal         `json:"legacyDeduction"`
	OnHandSalary         decimal.Decimal         `json:"onHandSalary"`
}

// Salary is the computed pay of one user for one cycle.
type Salary struct {
	UserID      string           `json:"userId"`
	UserName    string           `json:"userName"`
	Email       string           `json:"email"`
	Designation user.Designation `json:"designation"`
	Cycle       CycleInfo        `json:"cycle"`
	Stats       Stats            `json:"stats"`
	Financials  Financials       `json:"financials"`
}
