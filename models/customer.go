package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
)

type Customer struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	StoreId   string    `gorm:"size:100;index:idx_customer_store;not null" json:"storeId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:100" json:"phone"`
	Address   string    `gorm:"size:1000" json:"address"`
	Notes     string    `gorm:"size:1000" json:"notes"`
	IsActive  *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// validatePhone accepts an empty phone; a non-empty one must be a valid
// number for the store's region.
func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if err := utils.ValidatePhoneNumber(phone, utils.CountryCode); err != nil {
		return &InvalidValueError{Value: phone, Kind: "phone number"}
	}
	return nil
}

func CreateCustomer(ctx context.Context, storeId string, input CustomerInput) (*Customer, error) {
	if err := validatePhone(input.Phone); err != nil {
		return nil, err
	}

	customer := Customer{
		StoreId:  storeId,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, storeId string, id int, input CustomerInput) (*Customer, error) {
	if err := validatePhone(input.Phone); err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, storeId, id)
	if err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func GetCustomer(ctx context.Context, storeId string, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, storeId, id)
}

func GetCustomers(ctx context.Context, storeId string) ([]*Customer, error) {
	return utils.FetchAllModels[Customer](ctx, storeId)
}

func DeactivateCustomer(ctx context.Context, storeId string, id int) error {
	customer, err := utils.FetchModel[Customer](ctx, storeId, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Model(customer).UpdateColumn("is_active", false).Error
}
