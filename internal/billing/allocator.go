// Package billing implements the payment allocation algorithm: a lump sum
// paid by a client is distributed across selected invoices oldest-first.
package billing

import (
	"sort"

	"sgflota/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation assigns part of a payment to one invoice.
type Allocation struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Result is the outcome of distributing a payment. Applied is the portion
// absorbed by the invoices; Remainder is the excess that could not be
// allocated and must be reported back to the caller, never dropped.
type Result struct {
	Allocations []Allocation    `json:"allocations"`
	Applied     decimal.Decimal `json:"applied"`
	Remainder   decimal.Decimal `json:"remainder"`
}

// Allocate distributes total across the invoices, oldest date first (invoice
// id as deterministic tie-break), assigning min(pending, remaining) to each
// until the total is exhausted. Invoices with no pending balance get nothing.
//
// A non-positive total or empty selection yields an empty allocation; the
// function never mutates its inputs and is referentially transparent.
func Allocate(total decimal.Decimal, invoices []model.Invoice) Result {
	res := Result{
		Allocations: []Allocation{},
		Applied:     decimal.Zero,
		Remainder:   decimal.Zero,
	}
	if !total.IsPositive() || len(invoices) == 0 {
		if total.IsPositive() {
			res.Remainder = total
		}
		return res
	}

	sorted := make([]model.Invoice, len(invoices))
	copy(sorted, invoices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	remaining := total
	for _, inv := range sorted {
		if !remaining.IsPositive() {
			break
		}
		pending := inv.Pending()
		if !pending.IsPositive() {
			continue
		}
		amount := decimal.Min(pending, remaining)
		res.Allocations = append(res.Allocations, Allocation{InvoiceID: inv.ID, Amount: amount})
		res.Applied = res.Applied.Add(amount)
		remaining = remaining.Sub(amount)
	}
	res.Remainder = remaining

	return res
}
