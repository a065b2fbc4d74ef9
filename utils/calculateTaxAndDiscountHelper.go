package utils

import (
	"github.com/shopspring/decimal"
)

// CalculateAdjustmentAmount resolves a discount or service-fee adjustment
// against a subtotal. "P" values are percent points (10 = 10%), "A" values are
// added/subtracted as-is.
func CalculateAdjustmentAmount(subTotal decimal.Decimal, value decimal.Decimal, adjustmentType string) decimal.Decimal {

	var amount decimal.Decimal

	decimalOneHundred := decimal.NewFromFloat(100)

	if value.GreaterThan(decimal.NewFromFloat(0.0)) {
		if adjustmentType == "P" {
			amount = subTotal.Mul(value).DivRound(decimalOneHundred, 4)
		} else {
			amount = value
		}
	} else {
		amount = decimal.NewFromFloat(0.0)
	}

	return amount
}

// CalculateTaxAmount applies a fractional tax rate (0.08 = 8%) to the subtotal.
func CalculateTaxAmount(subTotal decimal.Decimal, taxRate decimal.Decimal) decimal.Decimal {
	if taxRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return subTotal.Mul(taxRate).Round(4)
}
