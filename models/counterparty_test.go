package models

import (
	"context"
	"errors"
	"testing"
)

// Phone validation runs before any database work, so the bad-phone paths are
// testable without a connection.
func TestCreateVendorRejectsInvalidPhone(t *testing.T) {
	_, err := CreateVendor(context.Background(), "store-1", VendorInput{
		Name:  "Goldsmith Works",
		Phone: "12345",
	})

	var invalidValue *InvalidValueError
	if !errors.As(err, &invalidValue) {
		t.Fatalf("err = %v, want InvalidValueError", err)
	}
	if invalidValue.Kind != "phone number" {
		t.Errorf("kind = %q, want \"phone number\"", invalidValue.Kind)
	}
}

func TestCreateCustomerRejectsInvalidPhone(t *testing.T) {
	_, err := CreateCustomer(context.Background(), "store-1", CustomerInput{
		Name:  "Alex Rivera",
		Phone: "not-a-phone",
	})

	var invalidValue *InvalidValueError
	if !errors.As(err, &invalidValue) {
		t.Fatalf("err = %v, want InvalidValueError", err)
	}
}
