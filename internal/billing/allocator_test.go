package billing

import (
	"testing"
	"time"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceOn(day int, amount, paid string) model.Invoice {
	return model.Invoice{
		ID:         uuid.New(),
		Amount:     decimal.RequireFromString(amount),
		PaidAmount: decimal.RequireFromString(paid),
		Date:       time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestAllocate_OldestFirst(t *testing.T) {
	older := invoiceOn(1, "800", "0")
	newer := invoiceOn(10, "400", "0")

	// Deliberately pass the newer invoice first; the date must decide.
	res := Allocate(decimal.NewFromInt(1200), []model.Invoice{newer, older})

	require.Len(t, res.Allocations, 2)
	assert.Equal(t, older.ID, res.Allocations[0].InvoiceID)
	assert.True(t, res.Allocations[0].Amount.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, newer.ID, res.Allocations[1].InvoiceID)
	assert.True(t, res.Allocations[1].Amount.Equal(decimal.NewFromInt(400)))
	assert.True(t, res.Applied.Equal(decimal.NewFromInt(1200)))
	assert.True(t, res.Remainder.IsZero())
}

func TestAllocate_PartialCoverage(t *testing.T) {
	older := invoiceOn(1, "800", "0")
	newer := invoiceOn(10, "400", "0")

	res := Allocate(decimal.NewFromInt(500), []model.Invoice{older, newer})

	require.Len(t, res.Allocations, 1)
	assert.Equal(t, older.ID, res.Allocations[0].InvoiceID)
	assert.True(t, res.Allocations[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, res.Applied.Equal(decimal.NewFromInt(500)))
	assert.True(t, res.Remainder.IsZero())
}

func TestAllocate_OverpaymentReportsRemainder(t *testing.T) {
	older := invoiceOn(1, "800", "0")
	newer := invoiceOn(10, "400", "0")

	res := Allocate(decimal.NewFromInt(2000), []model.Invoice{older, newer})

	require.Len(t, res.Allocations, 2)
	assert.True(t, res.Applied.Equal(decimal.NewFromInt(1200)))
	assert.True(t, res.Remainder.Equal(decimal.NewFromInt(800)))

	// Conservation: applied + remainder must equal the payment total.
	assert.True(t, res.Applied.Add(res.Remainder).Equal(decimal.NewFromInt(2000)))
}

func TestAllocate_SkipsSettledInvoices(t *testing.T) {
	settled := invoiceOn(1, "300", "300")
	partial := invoiceOn(5, "500", "200")

	res := Allocate(decimal.NewFromInt(400), []model.Invoice{settled, partial})

	require.Len(t, res.Allocations, 1)
	assert.Equal(t, partial.ID, res.Allocations[0].InvoiceID)
	assert.True(t, res.Allocations[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, res.Remainder.Equal(decimal.NewFromInt(100)))
}

func TestAllocate_DateTieBreakIsDeterministic(t *testing.T) {
	a := invoiceOn(1, "100", "0")
	b := invoiceOn(1, "100", "0")

	first := Allocate(decimal.NewFromInt(100), []model.Invoice{a, b})
	second := Allocate(decimal.NewFromInt(100), []model.Invoice{b, a})

	require.Len(t, first.Allocations, 1)
	require.Len(t, second.Allocations, 1)
	assert.Equal(t, first.Allocations[0].InvoiceID, second.Allocations[0].InvoiceID)
}

func TestAllocate_DegenerateInputs(t *testing.T) {
	inv := invoiceOn(1, "100", "0")

	t.Run("zero total", func(t *testing.T) {
		res := Allocate(decimal.Zero, []model.Invoice{inv})
		assert.Empty(t, res.Allocations)
		assert.True(t, res.Applied.IsZero())
		assert.True(t, res.Remainder.IsZero())
	})

	t.Run("negative total", func(t *testing.T) {
		res := Allocate(decimal.NewFromInt(-50), []model.Invoice{inv})
		assert.Empty(t, res.Allocations)
		assert.True(t, res.Applied.IsZero())
		assert.True(t, res.Remainder.IsZero())
	})

	t.Run("no invoices", func(t *testing.T) {
		res := Allocate(decimal.NewFromInt(250), nil)
		assert.Empty(t, res.Allocations)
		assert.True(t, res.Applied.IsZero())
		assert.True(t, res.Remainder.Equal(decimal.NewFromInt(250)))
	})
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	invoices := []model.Invoice{
		invoiceOn(10, "400", "0"),
		invoiceOn(1, "800", "0"),
	}
	firstID := invoices[0].ID

	Allocate(decimal.NewFromInt(1200), invoices)

	assert.Equal(t, firstID, invoices[0].ID)
	assert.True(t, invoices[0].PaidAmount.IsZero())
	assert.True(t, invoices[1].PaidAmount.IsZero())
}

func TestAllocate_CentPrecision(t *testing.T) {
	older := invoiceOn(1, "100.50", "0")
	newer := invoiceOn(2, "99.75", "0")

	res := Allocate(decimal.RequireFromString("150.00"), []model.Invoice{older, newer})

	require.Len(t, res.Allocations, 2)
	assert.True(t, res.Allocations[0].Amount.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, res.Allocations[1].Amount.Equal(decimal.RequireFromString("49.50")))
	assert.True(t, res.Remainder.IsZero())
}
