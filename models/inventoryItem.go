package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID          int             `gorm:"primaryKey" json:"id"`
	StoreId     string          `gorm:"size:100;index:idx_inventory_store;not null" json:"storeId"`
	Sku         string          `gorm:"size:100" json:"sku"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description"`
	Category    string          `gorm:"size:100" json:"category"`
	Metal       string          `gorm:"size:100" json:"metal"`
	StoneType   string          `gorm:"size:100" json:"stoneType"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitCost"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitPrice"`
	OnHandQty   decimal.Decimal `gorm:"type:decimal(20,4)" json:"onHandQty"`
	IsActive    *bool           `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type InventoryItemInput struct {
	Sku         string          `json:"sku"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Metal       string          `json:"metal"`
	StoneType   string          `json:"stoneType"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	OnHandQty   decimal.Decimal `json:"onHandQty"`
}

func CreateInventoryItem(ctx context.Context, storeId string, input InventoryItemInput) (*InventoryItem, error) {
	if input.Sku != "" {
		if err := utils.ValidateUnique[InventoryItem](ctx, storeId, "sku", input.Sku, 0); err != nil {
			return nil, err
		}
	}

	item := InventoryItem{
		StoreId:     storeId,
		Sku:         input.Sku,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Metal:       input.Metal,
		StoneType:   input.StoneType,
		UnitCost:    input.UnitCost,
		UnitPrice:   input.UnitPrice,
		OnHandQty:   input.OnHandQty,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateInventoryItem(ctx context.Context, storeId string, id int, input InventoryItemInput) (*InventoryItem, error) {
	item, err := utils.FetchModel[InventoryItem](ctx, storeId, id)
	if err != nil {
		return nil, err
	}

	if input.Sku != "" {
		if err := utils.ValidateUnique[InventoryItem](ctx, storeId, "sku", input.Sku, id); err != nil {
			return nil, err
		}
	}

	item.Sku = input.Sku
	item.Name = input.Name
	item.Description = input.Description
	item.Category = input.Category
	item.Metal = input.Metal
	item.StoneType = input.StoneType
	item.UnitCost = input.UnitCost
	item.UnitPrice = input.UnitPrice

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func GetInventoryItem(ctx context.Context, storeId string, id int) (*InventoryItem, error) {
	return utils.FetchModel[InventoryItem](ctx, storeId, id)
}

func GetInventoryItems(ctx context.Context, storeId string) ([]*InventoryItem, error) {
	return utils.FetchAllModels[InventoryItem](ctx, storeId)
}

// DeactivateInventoryItem hides an item from new documents without touching
// historical lines that reference it.
func DeactivateInventoryItem(ctx context.Context, storeId string, id int) error {
	item, err := utils.FetchModel[InventoryItem](ctx, storeId, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Model(item).UpdateColumn("is_active", false).Error
}

// incrementOnHand adds qty to an item's on-hand quantity as a single atomic
// UPDATE inside the caller's transaction. Concurrent restocks against the
// same item serialize on the row, never on a read-modify-write in Go.
func incrementOnHand(tx *gorm.DB, storeId string, itemId int, qty decimal.Decimal) error {
	result := tx.Model(&InventoryItem{}).
		Where("store_id = ? AND id = ?", storeId, itemId).
		UpdateColumn("on_hand_qty", gorm.Expr("on_hand_qty + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func decrementOnHand(tx *gorm.DB, storeId string, itemId int, qty decimal.Decimal) error {
	return incrementOnHand(tx, storeId, itemId, qty.Neg())
}
