// Package money provides currency-safe arithmetic for euro amounts found
// on Italian commercial documents, plus parsing of the Italian numeric
// convention (comma decimal separator, dot thousands separator).
// It wraps go-money for cent-safe sums and shopspring/decimal for
// precision calculations.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// EUR is the only currency these documents carry.
const EUR = "EUR"

// Amount represents a monetary value in euros.
type Amount struct {
	m *money.Money
}

// New creates an Amount from euro cents.
func New(cents int64) *Amount {
	return &Amount{m: money.New(cents, EUR)}
}

// Zero returns a zero euro Amount.
func Zero() *Amount {
	return New(0)
}

// FromDecimal creates an Amount from a decimal euro value, rounding to
// the cent.
func FromDecimal(d decimal.Decimal) *Amount {
	return New(d.Mul(decimal.New(1, 2)).Round(0).IntPart())
}

// ParseItalian parses a number printed in Italian convention, e.g.
// "1.234,56" or "1,9000". It also tolerates already-normalized input
// like "1234.56".
func ParseItalian(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}

	if strings.Contains(s, ",") {
		// Italian: dots are thousands separators, comma is the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if dots := strings.Count(s, "."); dots > 1 {
		// Multiple dots with no comma: thousands-grouped integer.
		s = strings.ReplaceAll(s, ".", "")
	} else if dots == 1 {
		// A single dot followed by exactly three digits is a thousands
		// separator ("1.200"), not a decimal mark.
		if idx := strings.Index(s, "."); len(s)-idx-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return d, nil
}

// Cents returns the amount in euro cents.
func (a *Amount) Cents() int64 {
	if a == nil || a.m == nil {
		return 0
	}
	return a.m.Amount()
}

// Decimal returns the amount as a decimal euro value.
func (a *Amount) Decimal() decimal.Decimal {
	return decimal.New(a.Cents(), -2)
}

// Add sums two euro amounts.
func (a *Amount) Add(other *Amount) *Amount {
	if a == nil || a.m == nil {
		return other
	}
	if other == nil || other.m == nil {
		return a
	}
	sum, err := a.m.Add(other.m)
	if err != nil {
		// Both sides are EUR by construction.
		panic(err)
	}
	return &Amount{m: sum}
}

// IsZero reports whether the amount is zero.
func (a *Amount) IsZero() bool {
	return a == nil || a.m == nil || a.m.IsZero()
}

// String formats the amount with the euro symbol, e.g. "€193.80".
func (a *Amount) String() string {
	if a == nil || a.m == nil {
		return "€0.00"
	}
	return a.m.Display()
}

// FormatEUR renders a decimal euro value for warnings and logs.
func FormatEUR(d decimal.Decimal) string {
	return FromDecimal(d).String()
}
