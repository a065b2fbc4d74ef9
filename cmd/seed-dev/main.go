// seed-dev loads a demo store with a vendor, a customer and a few inventory
// items so the API has something to serve in a fresh environment.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev --store-id demo-store
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/models"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
)

func main() {
	storeID := flag.String("store-id", "demo-store", "store id to seed")
	flag.Parse()

	if strings.TrimSpace(*storeID) == "" {
		fmt.Fprintln(os.Stderr, "--store-id is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	vendor, err := models.CreateVendor(ctx, *storeID, models.VendorInput{
		Name:  "Goldsmith Works",
		Email: "workshop@goldsmithworks.example",
		Phone: "+12025550101",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create vendor: %v\n", err)
		os.Exit(1)
	}

	customer, err := models.CreateCustomer(ctx, *storeID, models.CustomerInput{
		Name:  "Alex Rivera",
		Email: "alex.rivera@example.com",
		Phone: "+12025550102",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create customer: %v\n", err)
		os.Exit(1)
	}

	items := []models.InventoryItemInput{
		{Sku: "RING-001", Name: "14k Gold Band", Category: "Rings", Metal: "Gold", UnitCost: decimal.NewFromInt(180), UnitPrice: decimal.NewFromInt(420), OnHandQty: decimal.NewFromInt(12)},
		{Sku: "NECK-001", Name: "Silver Pendant Necklace", Category: "Necklaces", Metal: "Silver", UnitCost: decimal.NewFromInt(45), UnitPrice: decimal.NewFromInt(130), OnHandQty: decimal.NewFromInt(20)},
		{Sku: "EAR-001", Name: "Diamond Stud Earrings", Category: "Earrings", Metal: "Gold", StoneType: "Diamond", UnitCost: decimal.NewFromInt(520), UnitPrice: decimal.NewFromInt(1250), OnHandQty: decimal.NewFromInt(6)},
	}
	for _, input := range items {
		if _, err := models.CreateInventoryItem(ctx, *storeID, input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create inventory item %s: %v\n", input.Sku, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded store %s: vendor #%d, customer #%d, %d inventory items\n",
		*storeID, vendor.ID, customer.ID, len(items))
}
