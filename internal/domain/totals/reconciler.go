// Package totals computes document totals from the parsed line items and
// cross-checks them against the totals the document itself prints.
package totals

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/money"
)

var printedTotal = regexp.MustCompile(`(?i)Totale\s+documento\D*([\d.,]+)`)

// Reconciler sums line items per VAT rate and validates the grand total.
type Reconciler struct {
	tolerance decimal.Decimal
}

// New builds a Reconciler; tolerance is in euro (absolute) and absorbs
// per-rate rounding in the printed totals.
func New(tolerance float64) *Reconciler {
	return &Reconciler{tolerance: decimal.NewFromFloat(tolerance)}
}

// Result is the computed totals block.
type Result struct {
	Subtotal  decimal.Decimal
	VATTotal  decimal.Decimal
	Total     decimal.Decimal
	Breakdown []document.VATBreakdown
	// Warning is non-empty when the document prints a grand total that
	// disagrees with the computed one beyond tolerance.
	Warning string
}

// Reconcile computes per-rate taxable and tax amounts from the items,
// then compares against the printed grand total found in text, if any.
// A mismatch produces a warning, never an error: the computed values
// win, the printed ones are evidence.
func (r *Reconciler) Reconcile(items []document.LineItem, text string) Result {
	byRate := make(map[int]*document.VATBreakdown)
	for _, item := range items {
		b, ok := byRate[item.VATRate]
		if !ok {
			b = &document.VATBreakdown{Rate: item.VATRate}
			byRate[item.VATRate] = b
		}
		b.Taxable = b.Taxable.Add(item.LineTotal)
	}

	var res Result
	res.Subtotal = decimal.Zero
	res.VATTotal = decimal.Zero
	for _, b := range byRate {
		b.Tax = b.Taxable.Mul(decimal.NewFromInt(int64(b.Rate))).Div(decimal.NewFromInt(100)).Round(2)
		b.Taxable = b.Taxable.Round(2)
		res.Subtotal = res.Subtotal.Add(b.Taxable)
		res.VATTotal = res.VATTotal.Add(b.Tax)
		res.Breakdown = append(res.Breakdown, *b)
	}
	sort.Slice(res.Breakdown, func(i, j int) bool {
		return res.Breakdown[i].Rate < res.Breakdown[j].Rate
	})
	res.Total = res.Subtotal.Add(res.VATTotal)

	if m := printedTotal.FindStringSubmatch(text); m != nil {
		printed, err := money.ParseItalian(m[1])
		if err == nil && printed.Sub(res.Total).Abs().GreaterThan(r.tolerance) {
			res.Warning = fmt.Sprintf(
				"printed total %s disagrees with computed total %s",
				printed.StringFixed(2), res.Total.StringFixed(2),
			)
		}
	}
	return res
}
