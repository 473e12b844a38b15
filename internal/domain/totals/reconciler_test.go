package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

func item(total string, rate int) document.LineItem {
	return document.LineItem{
		LineTotal: decimal.RequireFromString(total),
		VATRate:   rate,
	}
}

func TestReconcileGroupsByVATRate(t *testing.T) {
	r := New(0.01)

	res := r.Reconcile([]document.LineItem{
		item("100.00", 10),
		item("93.80", 10),
		item("50.00", 4),
		item("20.00", 22),
	}, "")

	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, 4, res.Breakdown[0].Rate)
	assert.Equal(t, 10, res.Breakdown[1].Rate)
	assert.Equal(t, 22, res.Breakdown[2].Rate)

	assert.True(t, res.Breakdown[0].Taxable.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, res.Breakdown[0].Tax.Equal(decimal.RequireFromString("2.00")))
	assert.True(t, res.Breakdown[1].Taxable.Equal(decimal.RequireFromString("193.80")))
	assert.True(t, res.Breakdown[1].Tax.Equal(decimal.RequireFromString("19.38")))
	assert.True(t, res.Breakdown[2].Tax.Equal(decimal.RequireFromString("4.40")))

	assert.True(t, res.Subtotal.Equal(decimal.RequireFromString("263.80")))
	assert.True(t, res.VATTotal.Equal(decimal.RequireFromString("25.78")))
	assert.True(t, res.Total.Equal(decimal.RequireFromString("289.58")))
	assert.Empty(t, res.Warning)
}

func TestReconcileMatchingPrintedTotal(t *testing.T) {
	r := New(0.01)

	res := r.Reconcile([]document.LineItem{item("193.80", 10)},
		"Totale documento   213,18")
	assert.Empty(t, res.Warning)
}

func TestReconcileMismatchedPrintedTotal(t *testing.T) {
	r := New(0.01)

	res := r.Reconcile([]document.LineItem{item("193.80", 10)},
		"Totale documento   250,00")
	assert.Contains(t, res.Warning, "250.00")
	assert.Contains(t, res.Warning, "213.18")
}

func TestReconcileToleratesRounding(t *testing.T) {
	r := New(0.01)

	// Off by a cent of per-rate rounding.
	res := r.Reconcile([]document.LineItem{item("193.80", 10)},
		"Totale documento 213,19")
	assert.Empty(t, res.Warning)
}

func TestReconcileNoItems(t *testing.T) {
	res := New(0.01).Reconcile(nil, "")
	assert.True(t, res.Subtotal.IsZero())
	assert.True(t, res.VATTotal.IsZero())
	assert.True(t, res.Total.IsZero())
	assert.Empty(t, res.Breakdown)
	assert.Empty(t, res.Warning)
}
