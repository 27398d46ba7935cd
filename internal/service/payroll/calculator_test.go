package payroll

import (
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %d, got %s", want, got)
}

func TestCompute_AbsenteeismGrace(t *testing.T) {
	stats, fin := Compute(Inputs{AllocatedSalary: dec(30000), TotalCycleDays: 30, PresentDays: 28})
	assert.Equal(t, 2, stats.AbsentDays)
	assert.Equal(t, 0, stats.LopDays)
	assertDec(t, 0, fin.AbsenteeismDeduction)
	assertDec(t, 30000, fin.OnHandSalary)
}

func TestCompute_LossOfPay(t *testing.T) {
	stats, fin := Compute(Inputs{AllocatedSalary: dec(30000), TotalCycleDays: 30, PresentDays: 20})
	assert.Equal(t, 10, stats.AbsentDays)
	assert.Equal(t, 6, stats.LopDays)
	assertDec(t, 6000, fin.AbsenteeismDeduction)
	assertDec(t, 24000, fin.OnHandSalary)
}

func TestCompute_TimeShortage(t *testing.T) {
	in := Inputs{
		AllocatedSalary:      dec(24000),
		TotalCycleDays:       10,
		PresentDays:          10,
		NetWorkingMinutes:    70 * 60,
		ApprovedPermissions:  6,
		TimeShortageEnforced: true,
	}

	// expected 80h, credit min(6,4)*2 = 8h, worked 70h: 2h short at 100/h.
	stats, fin := Compute(in)
	assertDec(t, 80, stats.ExpectedHours)
	assertDec(t, 8, stats.PermissionCreditHours)
	assertDec(t, 2, stats.ShortageHours)
	assertDec(t, 200, fin.ShortageDeduction)
	assertDec(t, 23800, fin.OnHandSalary)

	in.TimeShortageEnforced = false
	stats, fin = Compute(in)
	assert.False(t, stats.TimeShortageApplied)
	assertDec(t, 0, fin.ShortageDeduction)
	assertDec(t, 24000, fin.OnHandSalary)
}

func TestCompute_ShortageNeverNegative(t *testing.T) {
	stats, fin := Compute(Inputs{
		AllocatedSalary:      dec(24000),
		TotalCycleDays:       1,
		PresentDays:          1,
		NetWorkingMinutes:    600,
		TimeShortageEnforced: true,
	})
	assertDec(t, 0, stats.ShortageHours)
	assertDec(t, 0, fin.ShortageDeduction)
}

func TestCompute_ManualDeductionsAndFloor(t *testing.T) {
	_, fin := Compute(Inputs{
		AllocatedSalary: dec(20000),
		TotalCycleDays:  30,
		PresentDays:     30,
		Deductions: user.DeductionBreakdown{
			{Label: "PF", Amount: dec(1800), IsFixed: true},
			{Label: "Advance", Amount: decimal.RequireFromString("500.40"), IsFixed: true},
		},
		LegacyDeduction: dec(200),
	})
	assert.True(t, decimal.RequireFromString("2500.40").Equal(fin.ManualDeductions))
	assertDec(t, 17500, fin.OnHandSalary)

	_, fin = Compute(Inputs{
		AllocatedSalary: dec(1000),
		TotalCycleDays:  30,
		PresentDays:     30,
		LegacyDeduction: dec(5000),
	})
	assertDec(t, 0, fin.OnHandSalary)
	assert.NotNil(t, fin.DeductionItems)
}
