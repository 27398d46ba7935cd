package user

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestSalaryDeduction_UnmarshalMissingIsFixed(t *testing.T) {
	var b DeductionBreakdown
	err := json.Unmarshal([]byte(`[{"label":"PF","amount":1800},{"label":"Advance","amount":2500.5,"isFixed":false,"month":2,"year":2026}]`), &b)
	require.NoError(t, err)
	require.Len(t, b, 2)

	assert.True(t, b[0].IsFixed)
	assert.True(t, decimal.NewFromInt(1800).Equal(b[0].Amount))
	assert.Nil(t, b[0].Month)

	assert.False(t, b[1].IsFixed)
	assert.Equal(t, 2, *b[1].Month)
	assert.Equal(t, 2026, *b[1].Year)
	assert.True(t, decimal.RequireFromString("2500.5").Equal(b[1].Amount))
}

func TestSalaryDeduction_MarshalShape(t *testing.T) {
	item := SalaryDeduction{Label: "Advance", Amount: decimal.NewFromInt(500), IsFixed: false, Month: intPtr(3), Year: intPtr(2026)}
	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Advance","amount":500,"isFixed":false,"month":3,"year":2026}`, string(out))

	fixed := SalaryDeduction{Label: "PF", Amount: decimal.NewFromInt(1800), IsFixed: true}
	out, err = json.Marshal(fixed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"PF","amount":1800,"isFixed":true}`, string(out))
}

func TestDeductionBreakdown_For(t *testing.T) {
	b := DeductionBreakdown{
		{Label: "PF", Amount: decimal.NewFromInt(1000), IsFixed: true},
		{Label: "Advance", Amount: decimal.NewFromInt(500), Month: intPtr(2), Year: intPtr(2026)},
	}

	feb := b.For(time.February, 2026)
	assert.Len(t, feb, 2)
	assert.True(t, decimal.NewFromInt(1500).Equal(feb.Total()))

	assert.Len(t, b.For(time.March, 2026), 1)
	assert.Len(t, b.For(time.February, 2025), 1)
}

func TestDeductionBreakdown_ScanValue(t *testing.T) {
	b := DeductionBreakdown{{Label: "PF", Amount: decimal.NewFromInt(1000), IsFixed: true}}
	v, err := b.Value()
	require.NoError(t, err)

	var scanned DeductionBreakdown
	require.NoError(t, scanned.Scan(v))
	require.Len(t, scanned, 1)
	assert.Equal(t, "PF", scanned[0].Label)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)

	require.NoError(t, scanned.Scan(`[{"label":"x","amount":1}]`))
	assert.True(t, scanned[0].IsFixed)

	assert.Error(t, scanned.Scan(42))
}

func TestSalaryDeduction_Validate(t *testing.T) {
	assert.NoError(t, SalaryDeduction{Label: "PF", Amount: decimal.NewFromInt(1), IsFixed: true}.Validate())
	assert.Error(t, SalaryDeduction{Label: "", Amount: decimal.NewFromInt(1), IsFixed: true}.Validate())
	assert.Error(t, SalaryDeduction{Label: "x", Amount: decimal.NewFromInt(-1), IsFixed: true}.Validate())
	assert.Error(t, SalaryDeduction{Label: "x", Amount: decimal.NewFromInt(1)}.Validate())
	assert.Error(t, SalaryDeduction{Label: "x", Amount: decimal.NewFromInt(1), Month: intPtr(13), Year: intPtr(2026)}.Validate())
}
