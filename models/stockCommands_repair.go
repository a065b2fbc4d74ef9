package models

import (
	"time"

	"github.com/aurifex/jewelry_backend/utils"
	"gorm.io/gorm"
)

/* repair stock side effects, run inside the caller's transaction */

func removeRepairItemsFromStock(tx *gorm.DB, storeId string, items []RepairItem) error {
	for _, item := range items {
		if err := decrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
			return err
		}
	}
	return nil
}

func returnRepairItemsToStock(tx *gorm.DB, storeId string, items []RepairItem) error {
	for _, item := range items {
		if utils.DereferencePtr(item.Restocked) {
			continue
		}
		if err := incrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
			return err
		}
	}
	return nil
}

// restockRepairItems is the bulk restock run on completion, rejection and
// cancellation. Lines already restocked through the single-item path are
// skipped silently.
func restockRepairItems(tx *gorm.DB, storeId string, repair *Repair) error {
	for i := range repair.Details {
		item := &repair.Details[i]
		if utils.DereferencePtr(item.Restocked) {
			continue
		}
		if err := restockSingleRepairItem(tx, storeId, item); err != nil {
			return err
		}
	}
	return nil
}

// restockSingleRepairItem claims the line before touching stock so it can
// never be restocked twice.
func restockSingleRepairItem(tx *gorm.DB, storeId string, item *RepairItem) error {
	now := time.Now().UTC()
	claim := tx.Model(item).Where("restocked = ?", false).Updates(map[string]interface{}{
		"Restocked":   true,
		"RestockedAt": &now,
	})
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil
	}
	if err := incrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
		return err
	}
	item.Restocked = utils.NewTrue()
	item.RestockedAt = &now
	return nil
}
