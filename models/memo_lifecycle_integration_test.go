package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/models"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
)

// Full memo lifecycle against real MySQL + Redis:
// stock leaves at creation, comes back on vendor return, and the single-item
// restock path refuses to run twice.
//
// Run (requires Docker): INTEGRATION_TESTS=1 go test ./models -run MemoLifecycle -v
func TestMemoLifecycle_StockRoundTrip(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-lifecycle-test"

	vendor, err := models.CreateVendor(ctx, storeID, models.VendorInput{Name: "Test Goldsmith"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}

	ring, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "RING-T1",
		Name:      "Test Ring",
		UnitPrice: decimal.NewFromInt(400),
		OnHandQty: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	memo, err := models.CreateMemo(ctx, storeID, models.MemoInput{
		VendorId: &vendor.ID,
		TaxRate:  decimal.NewFromFloat(0.08),
		Details: []models.MemoItemInput{
			{InventoryItemId: ring.ID, Qty: decimal.NewFromInt(3), UnitRate: decimal.NewFromInt(400)},
		},
	})
	if err != nil {
		t.Fatalf("CreateMemo: %v", err)
	}
	if memo.CurrentStatus != models.MemoStatusPending {
		t.Fatalf("new memo status = %q, want Pending", memo.CurrentStatus)
	}
	if !strings.HasPrefix(memo.MemoNumber, "MEMO-") {
		t.Errorf("memo number = %q, want MEMO- prefix", memo.MemoNumber)
	}
	// subtotal 1200, tax 96
	if !memo.TotalAmount.Equal(decimal.NewFromInt(1296)) {
		t.Errorf("total = %s, want 1296", memo.TotalAmount)
	}

	assertOnHand(t, ctx, storeID, ring.ID, 7)

	// illegal jump straight to payment
	_, err = models.ReceiveMemoPayment(ctx, storeID, memo.ID, models.PaymentInput{PaymentMethod: "Cash"})
	var invalidTransition *models.InvalidTransitionError
	if !errors.As(err, &invalidTransition) {
		t.Fatalf("payment from Pending should be InvalidTransitionError, got %v", err)
	}

	if memo, err = models.SendMemoToVendor(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("SendMemoToVendor: %v", err)
	}
	if memo.SentAt == nil {
		t.Error("SentAt should be stamped")
	}

	if memo, err = models.MarkMemoReceived(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("MarkMemoReceived: %v", err)
	}

	if memo, err = models.MarkMemoReturned(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("MarkMemoReturned: %v", err)
	}
	if memo.CurrentStatus != models.MemoStatusVendorReturned {
		t.Fatalf("status = %q, want Vendor Returned", memo.CurrentStatus)
	}

	assertOnHand(t, ctx, storeID, ring.ID, 10)

	// explicit restock after the bulk restock must conflict
	_, err = models.RestockMemoItem(ctx, storeID, memo.ID, memo.Details[0].ID)
	var alreadyProcessed *models.AlreadyProcessedError
	if !errors.As(err, &alreadyProcessed) {
		t.Fatalf("second restock should be AlreadyProcessedError, got %v", err)
	}

	// audit trail covers every action
	logs, err := models.GetActivityLogs(ctx, storeID, models.DocumentTypeMemo, memo.ID)
	if err != nil {
		t.Fatalf("GetActivityLogs: %v", err)
	}
	wantActions := []string{"Create", "Send To Vendor", "Mark Received", "Mark Returned"}
	if len(logs) < len(wantActions) {
		t.Fatalf("expected at least %d activity rows, got %d", len(wantActions), len(logs))
	}
	for i, action := range wantActions {
		if logs[i].Action != action {
			t.Errorf("log[%d].Action = %q, want %q", i, logs[i].Action, action)
		}
	}
}

// Two simultaneous returns of the same memo: exactly one may win, and the
// stock comes back exactly once.
func TestMemoLifecycle_ConcurrentReturnRestocksOnce(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-concurrent-return-test"

	vendor, err := models.CreateVendor(ctx, storeID, models.VendorInput{Name: "Test Goldsmith"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	ring, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "RING-T2",
		Name:      "Test Ring",
		OnHandQty: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	memo, err := models.CreateMemo(ctx, storeID, models.MemoInput{
		VendorId: &vendor.ID,
		Details: []models.MemoItemInput{
			{InventoryItemId: ring.ID, Qty: decimal.NewFromInt(4), UnitRate: decimal.NewFromInt(400)},
		},
	})
	if err != nil {
		t.Fatalf("CreateMemo: %v", err)
	}
	if _, err = models.SendMemoToVendor(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("SendMemoToVendor: %v", err)
	}
	if _, err = models.MarkMemoReceived(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("MarkMemoReceived: %v", err)
	}
	assertOnHand(t, ctx, storeID, ring.ID, 6)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = models.MarkMemoReturned(ctx, storeID, memo.ID)
		}(i)
	}
	wg.Wait()

	// the loser is rejected, either at the lock or at the status guard
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("want exactly one successful return, got %d (errs = %v)", successes, errs)
	}

	// a retry after the winner must also be rejected
	_, err = models.MarkMemoReturned(ctx, storeID, memo.ID)
	var invalidTransition *models.InvalidTransitionError
	if !errors.As(err, &invalidTransition) {
		t.Fatalf("return after return should be InvalidTransitionError, got %v", err)
	}

	assertOnHand(t, ctx, storeID, ring.ID, 10)
}

// Payment path: vendor keeps the goods, lines are marked sold and an invoice
// is written in the same transaction.
func TestMemoLifecycle_PaymentCreatesInvoice(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-payment-test"

	vendor, err := models.CreateVendor(ctx, storeID, models.VendorInput{Name: "Test Goldsmith"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	pendant, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "PEND-T1",
		Name:      "Test Pendant",
		OnHandQty: decimal.NewFromInt(5),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	memo, err := models.CreateMemo(ctx, storeID, models.MemoInput{
		VendorId: &vendor.ID,
		Details: []models.MemoItemInput{
			{InventoryItemId: pendant.ID, Qty: decimal.NewFromInt(2), UnitRate: decimal.NewFromInt(150)},
		},
	})
	if err != nil {
		t.Fatalf("CreateMemo: %v", err)
	}

	if memo, err = models.SendMemoToVendor(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("SendMemoToVendor: %v", err)
	}
	if memo, err = models.MarkMemoReceived(ctx, storeID, memo.ID); err != nil {
		t.Fatalf("MarkMemoReceived: %v", err)
	}
	if memo, err = models.ReceiveMemoPayment(ctx, storeID, memo.ID, models.PaymentInput{PaymentMethod: "Card"}); err != nil {
		t.Fatalf("ReceiveMemoPayment: %v", err)
	}

	if memo.CurrentStatus != models.MemoStatusPaymentReceived {
		t.Fatalf("status = %q, want Payment Received", memo.CurrentStatus)
	}
	if !memo.PaidAmount.Equal(memo.TotalAmount) {
		t.Errorf("paid = %s, want full total %s", memo.PaidAmount, memo.TotalAmount)
	}
	if !memo.BalanceAmount.IsZero() {
		t.Errorf("balance = %s, want 0", memo.BalanceAmount)
	}
	for _, item := range memo.Details {
		if !utils.DereferencePtr(item.Sold) {
			t.Errorf("item %d should be marked sold", item.ID)
		}
	}
	// sold stock never comes back
	assertOnHand(t, ctx, storeID, pendant.ID, 3)

	invoices, err := models.GetInvoices(ctx, storeID)
	if err != nil {
		t.Fatalf("GetInvoices: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}
	inv := invoices[0]
	if inv.ReferenceType != models.DocumentTypeMemo || inv.ReferenceId != memo.ID {
		t.Errorf("invoice reference = %s/%d, want Memo/%d", inv.ReferenceType, inv.ReferenceId, memo.ID)
	}
	if !inv.TotalAmount.Equal(memo.TotalAmount) {
		t.Errorf("invoice total = %s, want %s", inv.TotalAmount, memo.TotalAmount)
	}
}

// Refund path for returns: goods enter stock only when the refund is issued.
func TestReturnLifecycle_RefundRestocks(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)
	storeID := "store-return-test"

	customer, err := models.CreateCustomer(ctx, storeID, models.CustomerInput{Name: "Test Customer"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	bracelet, err := models.CreateInventoryItem(ctx, storeID, models.InventoryItemInput{
		Sku:       "BRC-T1",
		Name:      "Test Bracelet",
		OnHandQty: decimal.NewFromInt(4),
	})
	if err != nil {
		t.Fatalf("CreateInventoryItem: %v", err)
	}

	ret, err := models.CreateReturn(ctx, storeID, models.ReturnInput{
		CustomerId: &customer.ID,
		Reason:     "wrong size",
		Details: []models.ReturnItemInput{
			{InventoryItemId: bracelet.ID, Qty: decimal.NewFromInt(1), UnitRate: decimal.NewFromInt(130)},
		},
	})
	if err != nil {
		t.Fatalf("CreateReturn: %v", err)
	}

	// no stock movement until refund
	assertOnHand(t, ctx, storeID, bracelet.ID, 4)

	if ret, err = models.ReceiveReturnItems(ctx, storeID, ret.ID); err != nil {
		t.Fatalf("ReceiveReturnItems: %v", err)
	}
	assertOnHand(t, ctx, storeID, bracelet.ID, 4)

	if ret, err = models.RefundReturn(ctx, storeID, ret.ID, models.PaymentInput{PaymentMethod: "Cash"}); err != nil {
		t.Fatalf("RefundReturn: %v", err)
	}
	if ret.CurrentStatus != models.ReturnStatusRefunded {
		t.Fatalf("status = %q, want Refunded", ret.CurrentStatus)
	}
	assertOnHand(t, ctx, storeID, bracelet.ID, 5)

	refunds, err := models.GetRefunds(ctx, storeID)
	if err != nil {
		t.Fatalf("GetRefunds: %v", err)
	}
	if len(refunds) != 1 {
		t.Fatalf("expected 1 refund, got %d", len(refunds))
	}
	if !refunds[0].Amount.Equal(ret.TotalAmount) {
		t.Errorf("refund amount = %s, want %s", refunds[0].Amount, ret.TotalAmount)
	}
}

func setupIntegrationEnv(t *testing.T) context.Context {
	t.Helper()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "jewelry_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	if err := models.MigrateTable(config.GetDB()); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	return ctx
}

func assertOnHand(t *testing.T, ctx context.Context, storeID string, itemID int, want int64) {
	t.Helper()
	item, err := models.GetInventoryItem(ctx, storeID, itemID)
	if err != nil {
		t.Fatalf("GetInventoryItem(%d): %v", itemID, err)
	}
	if !item.OnHandQty.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("on hand qty = %s, want %d", item.OnHandQty, want)
	}
}

/* docker helpers */

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("jewelry-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("jewelry-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=jewelry_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}
