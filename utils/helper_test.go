package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateAdjustmentAmount(t *testing.T) {
	subTotal := decimal.NewFromInt(200)

	if got := CalculateAdjustmentAmount(subTotal, decimal.NewFromInt(10), "P"); !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("10%% of 200 = %s, want 20", got)
	}
	if got := CalculateAdjustmentAmount(subTotal, decimal.NewFromInt(10), "A"); !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("flat 10 = %s, want 10", got)
	}
	if got := CalculateAdjustmentAmount(subTotal, decimal.NewFromInt(-5), "A"); !got.IsZero() {
		t.Errorf("negative value = %s, want 0", got)
	}
	if got := CalculateAdjustmentAmount(subTotal, decimal.Zero, "P"); !got.IsZero() {
		t.Errorf("zero value = %s, want 0", got)
	}
	// percent math rounds to 4 places
	if got := CalculateAdjustmentAmount(decimal.RequireFromString("33.3333"), decimal.NewFromInt(3), "P"); !got.Equal(decimal.RequireFromString("1")) {
		t.Errorf("3%% of 33.3333 = %s, want 1", got)
	}
}

func TestCalculateTaxAmount(t *testing.T) {
	if got := CalculateTaxAmount(decimal.NewFromInt(100), decimal.NewFromFloat(0.08)); !got.Equal(decimal.NewFromInt(8)) {
		t.Errorf("0.08 of 100 = %s, want 8", got)
	}
	if got := CalculateTaxAmount(decimal.NewFromInt(100), decimal.Zero); !got.IsZero() {
		t.Errorf("zero rate = %s, want 0", got)
	}
	if got := CalculateTaxAmount(decimal.NewFromInt(100), decimal.NewFromFloat(-0.08)); !got.IsZero() {
		t.Errorf("negative rate = %s, want 0", got)
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestParseDecimal(t *testing.T) {
	if d, err := ParseDecimal(" 12.5 "); err != nil || !d.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("ParseDecimal(\" 12.5 \") = %s, %v", d, err)
	}
	if _, err := ParseDecimal(""); err == nil {
		t.Error("empty string should error")
	}
	if _, err := ParseDecimal("abc"); err == nil {
		t.Error("non-numeric string should error")
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	if err := ValidatePhoneNumber("+12025550142", CountryCode); err != nil {
		t.Errorf("international format: %v", err)
	}
	if err := ValidatePhoneNumber("2025550142", CountryCode); err != nil {
		t.Errorf("national format: %v", err)
	}
	if err := ValidatePhoneNumber("12345", CountryCode); err == nil {
		t.Error("too-short number should fail")
	}
	if err := ValidatePhoneNumber("not-a-phone", CountryCode); err == nil {
		t.Error("garbage should fail")
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 7
	if got := DereferencePtr(&v); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
	if got := DereferencePtr[int](nil); got != 0 {
		t.Errorf("nil without default = %d, want 0", got)
	}
	if got := DereferencePtr[int](nil, 42); got != 42 {
		t.Errorf("nil with default = %d, want 42", got)
	}
}
