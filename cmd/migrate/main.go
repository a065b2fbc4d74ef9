// migrate runs the schema migrations as a standalone job. Deploys that set
// SKIP_MIGRATIONS=true on the API service run this off-path instead, so DDL
// never blocks live traffic.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/migrate
package main

import (
	"fmt"
	"os"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/models"
)

func main() {
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
	fmt.Println("migrations applied")
}
