package payroll

import (
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Inputs are the figures of one user and cycle that the salary formula reads.
type Inputs struct {
	AllocatedSalary      decimal.Decimal
	TotalCycleDays       int
	PresentDays          int
	NetWorkingMinutes    int
	ApprovedLeaves       float64
	ApprovedPermissions  int
	Deductions           user.DeductionBreakdown // already filtered to the cycle
	LegacyDeduction      decimal.Decimal
	TimeShortageEnforced bool
}

var (
	dailyDivisor  = decimal.NewFromInt(payroll.DailyDivisor)
	hourlyDivisor = decimal.NewFromInt(payroll.HourlyDivisor)
	minutesInHour = decimal.NewFromInt(60)
)

// Compute applies the on-hand salary formula:
//
//	absent    = max(0, totalDays - presentDays)
//	lop       = max(0, absent - 4)
//	absentee  = lop * salary / 30
//	shortage  = max(0, presentDays*8 - min(permissions, 4)*2 - workedHours) * salary / 240
//	onHand    = max(0, salary - absentee - shortage - manual)
//
// The shortage term only applies when TimeShortageEnforced is set. On-hand is
// rounded to whole currency units.
func Compute(in Inputs) (payroll.Stats, payroll.Financials) {
	salary := in.AllocatedSalary

	absent := max(0, in.TotalCycleDays-in.PresentDays)
	lop := max(0, absent-payroll.GraceAbsentDays)
	absenteeism := decimal.NewFromInt(int64(lop)).Mul(salary).Div(dailyDivisor)

	actualHours := decimal.NewFromInt(int64(in.NetWorkingMinutes)).Div(minutesInHour)
	expectedHours := decimal.NewFromInt(int64(in.PresentDays * payroll.ExpectedHoursPerDay))
	creditHours := decimal.NewFromInt(int64(min(in.ApprovedPermissions, payroll.MaxCreditedPermissions) * payroll.PermissionCreditHours))

	shortageHours := decimal.Zero
	shortage := decimal.Zero
	if in.TimeShortageEnforced {
		shortageHours = decimal.Max(decimal.Zero, expectedHours.Sub(creditHours).Sub(actualHours))
		shortage = shortageHours.Mul(salary).Div(hourlyDivisor)
	}

	deductions := in.Deductions
	if deductions == nil {
		deductions = user.DeductionBreakdown{}
	}
	manual := deductions.Total().Add(in.LegacyDeduction)

	onHand := salary.Sub(absenteeism).Sub(shortage).Sub(manual)
	onHand = decimal.Max(decimal.Zero, onHand).Round(0)

	stats := payroll.Stats{
		PresentDays:           in.PresentDays,
		AbsentDays:            absent,
		LopDays:               lop,
		ApprovedLeaves:        in.ApprovedLeaves,
		ApprovedPermissions:   in.ApprovedPermissions,
		ActualWorkingHours:    actualHours.Round(2),
		ExpectedHours:         expectedHours,
		PermissionCreditHours: creditHours,
		ShortageHours:         shortageHours.Round(2),
		TimeShortageApplied:   in.TimeShortageEnforced,
	}
	financials := payroll.Financials{
		AllocatedSalary:      salary,
		AbsenteeismDeduction: absenteeism.Round(2),
		ShortageDeduction:    shortage.Round(2),
		ManualDeductions:     manual,
		DeductionItems:       deductions,
		LegacyDeduction:      in.LegacyDeduction,
		OnHandSalary:         onHand,
	}
	return stats, financials
}
