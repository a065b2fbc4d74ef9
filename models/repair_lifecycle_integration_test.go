package models_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
)

// Cancel path for repairs: every line still out comes back into stock and the
// job cannot be cancelled twice.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./models -run RepairLifecycle -v
func TestRepairLifecycle_CancelRestocks(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-repair-cancel-test"

	vendor, err := models.CreateVendor(ctx, storeID, models.VendorInput{Name: "Test Workshop"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	brooch, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "BRO-T1",
		Name:      "Test Brooch",
		OnHandQty: decimal.NewFromInt(6),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}
	watch, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "WAT-T1",
		Name:      "Test Watch",
		OnHandQty: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	repair, err := models.CreateRepair(ctx, storeID, models.RepairInput{
		VendorId: &vendor.ID,
		Details: []models.RepairItemInput{
			{InventoryItemId: brooch.ID, Qty: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(60)},
			{InventoryItemId: watch.ID, Qty: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(90)},
		},
	})
	if err != nil {
		t.Fatalf("CreateRepair: %v", err)
	}
	if repair.CurrentStatus != models.RepairStatusPending {
		t.Fatalf("new repair status = %q, want Pending", repair.CurrentStatus)
	}

	// pieces leave stock at creation
	assertOnHand(t, ctx, storeID, brooch.ID, 5)
	assertOnHand(t, ctx, storeID, watch.ID, 2)

	if repair, err = models.CancelRepair(ctx, storeID, repair.ID); err != nil {
		t.Fatalf("CancelRepair: %v", err)
	}
	if repair.CurrentStatus != models.RepairStatusCancelled {
		t.Fatalf("status = %q, want Cancelled", repair.CurrentStatus)
	}
	for _, item := range repair.Details {
		if !utils.DereferencePtr(item.Restocked) {
			t.Errorf("item %d should be restocked", item.ID)
		}
		if item.RestockedAt == nil {
			t.Errorf("item %d should have a restock timestamp", item.ID)
		}
	}
	assertOnHand(t, ctx, storeID, brooch.ID, 6)
	assertOnHand(t, ctx, storeID, watch.ID, 3)

	// cancelled is terminal
	_, err = models.CancelRepair(ctx, storeID, repair.ID)
	var invalidTransition *models.InvalidTransitionError
	if !errors.As(err, &invalidTransition) {
		t.Fatalf("second cancel should be InvalidTransitionError, got %v", err)
	}
	// and the failed cancel must not touch stock
	assertOnHand(t, ctx, storeID, brooch.ID, 6)
	assertOnHand(t, ctx, storeID, watch.ID, 3)
}

// Complete-then-pay path: stock comes back at completion, payment writes the
// invoice without moving stock again.
func TestRepairLifecycle_CompletePaymentCreatesInvoice(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-repair-payment-test"

	vendor, err := models.CreateVendor(ctx, storeID, models.VendorInput{Name: "Test Workshop"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	chain, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "CHN-T1",
		Name:      "Test Chain",
		OnHandQty: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	repair, err := models.CreateRepair(ctx, storeID, models.RepairInput{
		VendorId:   &vendor.ID,
		ServiceFee: decimal.NewFromInt(25),
		Details: []models.RepairItemInput{
			{InventoryItemId: chain.ID, Qty: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(40)},
		},
	})
	if err != nil {
		t.Fatalf("CreateRepair: %v", err)
	}
	assertOnHand(t, ctx, storeID, chain.ID, 1)

	if repair, err = models.SendRepairToVendor(ctx, storeID, repair.ID); err != nil {
		t.Fatalf("SendRepairToVendor: %v", err)
	}
	if repair, err = models.MarkRepairReceived(ctx, storeID, repair.ID); err != nil {
		t.Fatalf("MarkRepairReceived: %v", err)
	}
	if repair, err = models.CompleteRepair(ctx, storeID, repair.ID); err != nil {
		t.Fatalf("CompleteRepair: %v", err)
	}
	if repair.CompletedAt == nil {
		t.Error("CompletedAt should be stamped")
	}
	assertOnHand(t, ctx, storeID, chain.ID, 2)

	if repair, err = models.ReceiveRepairPayment(ctx, storeID, repair.ID, models.PaymentInput{PaymentMethod: "Card"}); err != nil {
		t.Fatalf("ReceiveRepairPayment: %v", err)
	}
	if repair.CurrentStatus != models.RepairStatusPaymentReceived {
		t.Fatalf("status = %q, want Payment Received", repair.CurrentStatus)
	}
	if !repair.PaidAmount.Equal(repair.TotalAmount) {
		t.Errorf("paid = %s, want full total %s", repair.PaidAmount, repair.TotalAmount)
	}
	// payment is a money move only
	assertOnHand(t, ctx, storeID, chain.ID, 2)

	invoices, err := models.GetInvoices(ctx, storeID)
	if err != nil {
		t.Fatalf("GetInvoices: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	inv := invoices[0]
	if inv.ReferenceType != models.DocumentTypeRepair || inv.ReferenceId != repair.ID {
		t.Errorf("invoice reference = %s/%d, want Repair/%d", inv.ReferenceType, inv.ReferenceId, repair.ID)
	}
	if !inv.TotalAmount.Equal(repair.TotalAmount) {
		t.Errorf("invoice total = %s, want %s", inv.TotalAmount, repair.TotalAmount)
	}
}
