package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testLines(amounts ...int64) []MemoItem {
	lines := make([]MemoItem, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, MemoItem{
			Qty:      decimal.NewFromInt(1),
			UnitRate: decimal.NewFromInt(a),
			Amount:   decimal.NewFromInt(a),
		})
	}
	return lines
}

func TestCalculateDocumentTotals_TaxOnly(t *testing.T) {
	totals := calculateDocumentTotals(testLines(100), totalsInput{
		TaxRate: decimal.NewFromFloat(0.08),
	})

	if !totals.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("subtotal = %s, want 100", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(decimal.NewFromInt(8)) {
		t.Errorf("tax = %s, want 8", totals.TaxAmount)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(108)) {
		t.Errorf("total = %s, want 108", totals.TotalAmount)
	}
}

func TestCalculateDocumentTotals_PercentDiscountAndFee(t *testing.T) {
	totals := calculateDocumentTotals(testLines(150, 50), totalsInput{
		Discount:       decimal.NewFromInt(10),
		DiscountType:   "P",
		ServiceFee:     decimal.NewFromInt(5),
		ServiceFeeType: "P",
		ShippingCost:   decimal.NewFromInt(15),
	})

	// subtotal 200, discount 20, fee 10, shipping 15
	if !totals.Subtotal.Equal(decimal.NewFromInt(200)) {
		t.Errorf("subtotal = %s, want 200", totals.Subtotal)
	}
	if !totals.DiscountAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("discount = %s, want 20", totals.DiscountAmount)
	}
	if !totals.ServiceFeeAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("service fee = %s, want 10", totals.ServiceFeeAmount)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(205)) {
		t.Errorf("total = %s, want 205", totals.TotalAmount)
	}
}

func TestCalculateDocumentTotals_FlatAmounts(t *testing.T) {
	totals := calculateDocumentTotals(testLines(500), totalsInput{
		Discount:       decimal.NewFromInt(25),
		DiscountType:   "A",
		ServiceFee:     decimal.NewFromInt(40),
		ServiceFeeType: "A",
		TaxRate:        decimal.NewFromFloat(0.05),
	})

	// 500 - 25 + 25 tax + 40 fee
	if !totals.TaxAmount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("tax = %s, want 25", totals.TaxAmount)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(540)) {
		t.Errorf("total = %s, want 540", totals.TotalAmount)
	}
}

func TestCalculateDocumentTotals_IgnoresNegativeInputs(t *testing.T) {
	totals := calculateDocumentTotals(testLines(100), totalsInput{
		Discount:     decimal.NewFromInt(-10),
		DiscountType: "A",
		TaxRate:      decimal.NewFromFloat(-0.08),
		ShippingCost: decimal.NewFromInt(-5),
	})

	if !totals.DiscountAmount.IsZero() {
		t.Errorf("negative discount should resolve to zero, got %s", totals.DiscountAmount)
	}
	if !totals.TaxAmount.IsZero() {
		t.Errorf("negative tax rate should resolve to zero, got %s", totals.TaxAmount)
	}
	if !totals.ShippingCost.IsZero() {
		t.Errorf("negative shipping should clamp to zero, got %s", totals.ShippingCost)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("total = %s, want 100", totals.TotalAmount)
	}
}

func TestCalculateDocumentTotals_EmptyLines(t *testing.T) {
	totals := calculateDocumentTotals([]MemoItem{}, totalsInput{
		TaxRate: decimal.NewFromFloat(0.08),
	})
	if !totals.TotalAmount.IsZero() {
		t.Errorf("empty document should total zero, got %s", totals.TotalAmount)
	}
}

func TestCalculateDocumentTotals_FractionalRounding(t *testing.T) {
	lines := []MemoItem{{
		Qty:      decimal.NewFromInt(3),
		UnitRate: decimal.RequireFromString("33.3333"),
		Amount:   decimal.RequireFromString("99.9999"),
	}}
	totals := calculateDocumentTotals(lines, totalsInput{
		Discount:     decimal.NewFromInt(10),
		DiscountType: "P",
	})

	if !totals.DiscountAmount.Equal(decimal.RequireFromString("10")) {
		t.Errorf("discount = %s, want 10 (rounded to 4 places)", totals.DiscountAmount)
	}
}
