package models

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Vendor{},
		&Customer{},
		&InventoryItem{},
		&Memo{},
		&MemoItem{},
		&Repair{},
		&RepairItem{},
		&Return{},
		&ReturnItem{},
		&Invoice{},
		&InvoiceItem{},
		&Refund{},
		&ActivityLog{},
	)
}
