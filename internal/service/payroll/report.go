package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Payroll"

var reportHeader = []string{
	"Name",                  // A
	"Email",                 // B
	"Designation",           // C
	"Allocated Salary",      // D
	"Cycle Days",            // E
	"Present Days",          // F
	"Absent Days",           // G formula
	"LOP Days",              // H formula
	"Absenteeism Deduction", // I formula
	"Approved Leaves",       // J
	"Shortage Deduction",    // K
	"Manual Deductions",     // L
	"On-hand Salary",        // M formula
}

// Report implements payroll.PayrollService. Absence, LOP, absenteeism and
// on-hand columns are live formulas over the row's own cells so the sheet
// recomputes when opened.
func (s *PayrollServiceImpl) Report(ctx context.Context, actor user.Actor, sel payroll.Selector) ([]byte, string, error) {
	if !actor.Role.IsAdminTier() {
		return nil, "", user.ErrInsufficientPermissions
	}

	now := s.now()
	c := sel.Resolve(now)
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list active users: %w", err)
	}
	globalShortage := s.shortageEnabled(ctx)

	salaries := make([]payroll.Salary, 0, len(users))
	for _, u := range users {
		salary, err := s.compute(ctx, u, c, now, globalShortage)
		if err != nil {
			return nil, "", fmt.Errorf("failed to compute salary for %s: %w", u.ID, err)
		}
		salaries = append(salaries, salary)
	}

	data, err := renderReport(salaries)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render payroll report: %w", err)
	}
	filename := fmt.Sprintf("payroll-%04d-%02d.xlsx", c.Year, int(c.Month))
	return data, filename, nil
}

func renderReport(salaries []payroll.Salary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for c, v := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(reportSheet, cell, v); err != nil {
			return nil, err
		}
	}

	for i, s := range salaries {
		row := i + 2
		values := []any{
			s.UserName,
			s.Email,
			string(s.Designation),
			s.Financials.AllocatedSalary.InexactFloat64(),
			s.Cycle.TotalDays,
			s.Stats.PresentDays,
			nil,
			nil,
			nil,
			s.Stats.ApprovedLeaves,
			s.Financials.ShortageDeduction.InexactFloat64(),
			s.Financials.ManualDeductions.InexactFloat64(),
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, err
			}
		}

		formulas := map[string]string{
			"G": fmt.Sprintf("MAX(0,E%[1]d-F%[1]d)", row),
			"H": fmt.Sprintf("MAX(0,G%[1]d-%[2]d)", row, payroll.GraceAbsentDays),
			"I": fmt.Sprintf("H%[1]d*(D%[1]d/%[2]d)", row, payroll.DailyDivisor),
			"M": fmt.Sprintf("MAX(0,ROUND(D%[1]d-I%[1]d-K%[1]d-L%[1]d,0))", row),
		}
		for col, formula := range formulas {
			if err := f.SetCellFormula(reportSheet, fmt.Sprintf("%s%d", col, row), formula); err != nil {
				return nil, err
			}
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "B", 28},
		{"C", "C", 12},
		{"D", "M", 16},
	}
	for _, w := range widths {
		if err := f.SetColWidth(reportSheet, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, "A1", "M1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
