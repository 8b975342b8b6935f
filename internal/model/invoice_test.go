package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		paid   string
		want   string
	}{
		{"nothing paid", "1000", "0", InvoicePending},
		{"partially paid", "1000", "400", InvoicePartial},
		{"one cent short", "1000", "999.99", InvoicePartial},
		{"exactly paid", "1000", "1000", InvoicePaid},
		{"overpaid", "1000", "1200", InvoicePaid},
		{"zero amount invoice", "0", "0", InvoicePaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveInvoiceStatus(
				decimal.RequireFromString(tc.amount),
				decimal.RequireFromString(tc.paid),
			)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInvoicePending(t *testing.T) {
	inv := Invoice{
		Amount:     decimal.RequireFromString("1150"),
		PaidAmount: decimal.RequireFromString("400.50"),
	}
	assert.True(t, inv.Pending().Equal(decimal.RequireFromString("749.50")))
}
