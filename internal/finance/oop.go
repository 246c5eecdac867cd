// Package finance implements the deductible/coinsurance/OOP-max arithmetic.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/caregraph/caregraph/internal/domain"
)

// OutOfPocket computes the patient's share of an annual cost under the given
// plan terms: full cost up to the deductible, coinsurance on the remainder,
// capped at the OOP maximum. Pure function; monotone non-decreasing in
// annualCost and never greater than annualCost.
func OutOfPocket(annualCost decimal.Decimal, terms domain.PlanTerms) decimal.Decimal {
	if annualCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if annualCost.LessThanOrEqual(terms.Deductible) {
		return capAt(annualCost, terms.OOPMax)
	}
	oop := terms.Deductible.Add(annualCost.Sub(terms.Deductible).Mul(terms.Coinsurance))
	return capAt(oop, terms.OOPMax)
}

func capAt(amount, oopMax decimal.Decimal) decimal.Decimal {
	if oopMax.IsPositive() && amount.GreaterThan(oopMax) {
		return oopMax
	}
	return amount
}
