package models

import (
	"time"

	"github.com/aurifex/jewelry_backend/utils"
	"gorm.io/gorm"
)

/* return stock side effects, run inside the caller's transaction */

// restockReturnItems is the bulk restock run when a return is refunded.
// Lines restocked early through the single-item path are skipped silently.
func restockReturnItems(tx *gorm.DB, storeId string, ret *Return) error {
	for i := range ret.Details {
		item := &ret.Details[i]
		if utils.DereferencePtr(item.Restocked) {
			continue
		}
		if err := restockSingleReturnItem(tx, storeId, item); err != nil {
			return err
		}
	}
	return nil
}

// restockSingleReturnItem claims the line before touching stock so it can
// never be restocked twice.
func restockSingleReturnItem(tx *gorm.DB, storeId string, item *ReturnItem) error {
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
