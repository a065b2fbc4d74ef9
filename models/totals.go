package models

import (
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
)

// DocumentTotals carries every derived amount of a priced document.
// Recomputed from scratch on create, update and payment; never incrementally
// patched.
type DocumentTotals struct {
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxAmount        decimal.Decimal
	ServiceFeeAmount decimal.Decimal
	ShippingCost     decimal.Decimal
	TotalAmount      decimal.Decimal
}

type totalsInput struct {
	Discount       decimal.Decimal
	DiscountType   string
	TaxRate        decimal.Decimal
	ServiceFee     decimal.Decimal
	ServiceFeeType string
	ShippingCost   decimal.Decimal
}

type pricedLine interface {
	lineAmount() decimal.Decimal
}

// calculateDocumentTotals derives the charge breakdown for a document.
// Line amounts are summed as-is; discount and service fee resolve through
// their type ("P" percent of subtotal, "A" flat); tax applies the fractional
// rate to the subtotal. total = subtotal - discount + tax + serviceFee + shipping.
func calculateDocumentTotals[L pricedLine](lines []L, in totalsInput) DocumentTotals {
	subTotal := decimal.Zero
	for _, line := range lines {
		subTotal = subTotal.Add(line.lineAmount())
	}

	discountAmount := utils.CalculateAdjustmentAmount(subTotal, in.Discount, in.DiscountType)
	serviceFeeAmount := utils.CalculateAdjustmentAmount(subTotal, in.ServiceFee, in.ServiceFeeType)
	taxAmount := utils.CalculateTaxAmount(subTotal, in.TaxRate)

	shipping := in.ShippingCost
	if shipping.LessThan(decimal.Zero) {
		shipping = decimal.Zero
	}

	total := subTotal.Sub(discountAmount).Add(taxAmount).Add(serviceFeeAmount).Add(shipping)

	return DocumentTotals{
		Subtotal:         subTotal,
		DiscountAmount:   discountAmount,
		TaxAmount:        taxAmount,
		ServiceFeeAmount: serviceFeeAmount,
		ShippingCost:     shipping,
		TotalAmount:      total,
	}
}
