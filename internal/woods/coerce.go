package woods

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseStock accepts whole, non-negative numbers. "5" and "5.0" both yield 5.
func ParseStock(raw string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt32(maxStock)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// ParsePrice accepts non-negative numbers and rounds them to cents.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	d = d.Round(2)
	if d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, false
	}
	return d, true
}

const maxStock = 1<<31 - 1

// numeric(12,2) upper bound
var maxPrice = decimal.New(1, 10)
