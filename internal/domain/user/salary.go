package user

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SalaryDeduction is one line of a user's deduction breakdown. Fixed items
// apply to every cycle; the rest apply only to the cycle labelled Month/Year.
type SalaryDeduction struct {
	Label   string
	Amount  decimal.Decimal
	IsFixed bool
	Month   *int
	Year    *int
}

type salaryDeductionJSON struct {
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	IsFixed *bool           `json:"isFixed,omitempty"`
	Month   *int            `json:"month,omitempty"`
	Year    *int            `json:"year,omitempty"`
}

func init() {
	// Amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

func (d SalaryDeduction) MarshalJSON() ([]byte, error) {
	fixed := d.IsFixed
	return json.Marshal(salaryDeductionJSON{
		Label:   d.Label,
		Amount:  d.Amount,
		IsFixed: &fixed,
		Month:   d.Month,
		Year:    d.Year,
	})
}

// UnmarshalJSON treats a missing isFixed as true for rows written before the
// flag existed.
func (d *SalaryDeduction) UnmarshalJSON(data []byte) error {
	var raw salaryDeductionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Label = raw.Label
	d.Amount = raw.Amount
	d.IsFixed = raw.IsFixed == nil || *raw.IsFixed
	d.Month = raw.Month
	d.Year = raw.Year
	return nil
}

// AppliesTo reports whether the item counts for the cycle labelled month/year.
func (d SalaryDeduction) AppliesTo(month time.Month, year int) bool {
	if d.IsFixed {
		return true
	}
	return d.Month != nil && d.Year != nil && *d.Month == int(month) && *d.Year == year
}

func (d SalaryDeduction) Validate() error {
	if d.Label == "" {
		return errors.New("label is required")
	}
	if d.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if !d.IsFixed {
		if d.Month == nil || d.Year == nil {
			return errors.New("month and year are required for non-fixed deductions")
		}
		if *d.Month < 1 || *d.Month > 12 {
			return errors.New("month must be between 1 and 12")
		}
	}
	return nil
}

// DeductionBreakdown is stored as a JSONB array.
type DeductionBreakdown []SalaryDeduction

// For returns the items that apply to the cycle labelled month/year.
func (b DeductionBreakdown) For(month time.Month, year int) DeductionBreakdown {
	out := DeductionBreakdown{}
	for _, item := range b {
		if item.AppliesTo(month, year) {
			out = append(out, item)
		}
	}
	return out
}

func (b DeductionBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b {
		total = total.Add(item.Amount)
	}
	return total
}

// Value implements driver.Valuer for database storage
func (b DeductionBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner for database retrieval
func (b *DeductionBreakdown) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*b = DeductionBreakdown{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan DeductionBreakdown: unsupported type")
	}
	if len(raw) == 0 {
		*b = DeductionBreakdown{}
		return nil
	}
	return json.Unmarshal(raw, b)
}
