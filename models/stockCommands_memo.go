package models

import (
	"time"

	"github.com/aurifex/jewelry_backend/utils"
	"gorm.io/gorm"
)

/* memo stock side effects, run inside the caller's transaction */

// removeMemoItemsFromStock decrements on-hand quantity for every line.
// Called when consigned goods leave the store (create, and re-add on edit).
func removeMemoItemsFromStock(tx *gorm.DB, storeId string, items []MemoItem) error {
	for _, item := range items {
		if err := decrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
			return err
		}
	}
	return nil
}

// returnMemoItemsToStock reverses removeMemoItemsFromStock for lines that are
// still out (not restocked, not sold). Used when pending memos are edited or
// deleted.
func returnMemoItemsToStock(tx *gorm.DB, storeId string, items []MemoItem) error {
	for _, item := range items {
		if utils.DereferencePtr(item.Restocked) || utils.DereferencePtr(item.Sold) {
			continue
		}
		if err := incrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
			return err
		}
	}
	return nil
}

// restockMemoItems is the bulk restock run on return and cancellation. Lines
// already restocked (through the single-item path) are skipped silently, sold
// lines never come back.
func restockMemoItems(tx *gorm.DB, storeId string, memo *Memo) error {
	for i := range memo.Details {
		item := &memo.Details[i]
		if utils.DereferencePtr(item.Restocked) || utils.DereferencePtr(item.Sold) {
			continue
		}
		if err := restockSingleMemoItem(tx, storeId, item); err != nil {
			return err
		}
	}
	return nil
}

// restockSingleMemoItem claims the line before touching stock: the restocked
// flag flips only while still false, so a line can never be restocked twice
// no matter how many paths reach it.
func restockSingleMemoItem(tx *gorm.DB, storeId string, item *MemoItem) error {
	now := time.Now().UTC()
	claim := tx.Model(item).Where("restocked = ?", false).Updates(map[string]interface{}{
		"Restocked":   true,
		"RestockedAt": &now,
	})
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		// another path already put this line back
		return nil
	}
	if err := incrementOnHand(tx, storeId, item.InventoryItemId, item.Qty); err != nil {
		return err
	}
	item.Restocked = utils.NewTrue()
	item.RestockedAt = &now
	return nil
}

// markMemoItemsSold flags every line the vendor kept. Lines restocked earlier
// are left alone.
func markMemoItemsSold(tx *gorm.DB, storeId string, items []MemoItem) error {
	for i := range items {
		item := &items[i]
		if utils.DereferencePtr(item.Restocked) {
			continue
		}
		if err := tx.Model(item).UpdateColumn("sold", true).Error; err != nil {
			return err
		}
		item.Sold = utils.NewTrue()
	}
	return nil
}
