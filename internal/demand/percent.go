package demand

import "github.com/shopspring/decimal"

// Percent is count as a share of total, in percent, rounded half-to-even to
// one decimal place. A non-positive total yields 0.
func Percent(count, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct, _ := decimal.NewFromFloat(count / total * 100).RoundBank(1).Float64()
	return pct
}
