package usecase

import "github.com/shopspring/decimal"

// round2 rounds a monetary value to the 2-decimal display convention.
// Intermediate computation keeps full float precision; only persisted and
// reported amounts are rounded.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
