package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
)

type Vendor struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	StoreId   string    `gorm:"size:100;index:idx_vendor_store;not null" json:"storeId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:100" json:"phone"`
	Address   string    `gorm:"size:1000" json:"address"`
	Notes     string    `gorm:"size:1000" json:"notes"`
	IsActive  *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type VendorInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func CreateVendor(ctx context.Context, storeId string, input VendorInput) (*Vendor, error) {
	if err := validatePhone(input.Phone); err != nil {
		return nil, err
	}

	vendor := Vendor{
		StoreId:  storeId,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func UpdateVendor(ctx context.Context, storeId string, id int, input VendorInput) (*Vendor, error) {
	if err := validatePhone(input.Phone); err != nil {
		return nil, err
	}

	vendor, err := utils.FetchModel[Vendor](ctx, storeId, id)
	if err != nil {
		return nil, err
	}

	vendor.Name = input.Name
	vendor.Email = input.Email
	vendor.Phone = input.Phone
	vendor.Address = input.Address
	vendor.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func GetVendor(ctx context.Context, storeId string, id int) (*Vendor, error) {
	return utils.FetchModel[Vendor](ctx, storeId, id)
}

func GetVendors(ctx context.Context, storeId string) ([]*Vendor, error) {
	return utils.FetchAllModels[Vendor](ctx, storeId)
}

func DeactivateVendor(ctx context.Context, storeId string, id int) error {
	vendor, err := utils.FetchModel[Vendor](ctx, storeId, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Model(vendor).UpdateColumn("is_active", false).Error
}
