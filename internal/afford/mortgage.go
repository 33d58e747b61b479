// Package afford computes how much house an income can carry and which
// catalog products that puts within reach.
package afford

import (
	"math"

	"affordability-engine/internal/catalog"
)

// PaymentFactor is the monthly principal-and-interest payment per dollar
// borrowed on a fully amortizing loan. A non-positive rate falls back to the
// zero-interest limit 1/months.
func PaymentFactor(annualRate float64, months int) float64 {
	if annualRate <= 0 {
		return 1 / float64(months)
	}
	r := annualRate / 12
	g := math.Pow(1+r, float64(months))
	return r * g / (g - 1)
}

// MaxPurchasePrice returns the highest price whose financed principal and
// interest plus tax, insurance and HOA fit in the DTI budget.
func MaxPurchasePrice(annualIncome, annualRate, downPaymentPct float64, pol catalog.Policy) float64 {
	budget := annualIncome / 12 * pol.DTILimit
	factor := PaymentFactor(annualRate, pol.LoanTermMonths)
	return budget / ((1-downPaymentPct)*factor + pol.TaxInsHOARate/12)
}

// FinancedPrice applies the FHA/conventional cutoff: price with the base
// down payment, and if that exceeds the jumbo threshold, re-price with the
// jumbo down payment. It returns the price and the down payment used.
func FinancedPrice(annualIncome, annualRate float64, pol catalog.Policy) (float64, float64) {
	price := MaxPurchasePrice(annualIncome, annualRate, pol.BaseDownPayment, pol)
	if price > pol.JumboThreshold {
		return MaxPurchasePrice(annualIncome, annualRate, pol.JumboDownPayment, pol), pol.JumboDownPayment
	}
	return price, pol.BaseDownPayment
}

// MaxMonthlyRent is the rent an income supports under the rent-to-income rule.
func MaxMonthlyRent(annualIncome float64, pol catalog.Policy) float64 {
	return annualIncome / 12 * pol.RentToIncome
}
