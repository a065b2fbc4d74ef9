package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	invoiceNumberPrefix = "INV"
	refundNumberPrefix  = "RFD"
)

// Invoice is the settlement record written when a memo or repair is paid.
// It is created inside the payment transaction and never edited afterwards.
type Invoice struct {
	ID               int             `gorm:"primaryKey" json:"id"`
	StoreId          string          `gorm:"size:100;index:idx_invoice_store;not null" json:"storeId"`
	InvoiceNumber    string          `gorm:"size:50" json:"invoiceNumber"`
	SequenceNo       int64           `gorm:"index:idx_invoice_seq" json:"sequenceNo"`
	ReferenceType    DocumentType    `gorm:"size:50;index:idx_invoice_reference" json:"referenceType"`
	ReferenceId      int             `gorm:"index:idx_invoice_reference" json:"referenceId"`
	VendorId         *int            `json:"vendorId"`
	CustomerId       *int            `json:"customerId"`
	PaymentMethod    PaymentMethod   `gorm:"size:50" json:"paymentMethod"`
	InvoiceDate      time.Time       `json:"invoiceDate"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(20,4)" json:"subtotal"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"discountAmount"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxAmount"`
	ServiceFeeAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"serviceFeeAmount"`
	ShippingCost     decimal.Decimal `gorm:"type:decimal(20,4)" json:"shippingCost"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalAmount"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(20,4)" json:"paidAmount"`
	Details          []InvoiceItem   `gorm:"foreignKey:InvoiceId" json:"details"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type InvoiceItem struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	InvoiceId       int             `gorm:"index:idx_invoice_item_invoice;not null" json:"invoiceId"`
	StoreId         string          `gorm:"size:100;index:idx_invoice_item_store;not null" json:"storeId"`
	InventoryItemId int             `json:"inventoryItemId"`
	Description     string          `gorm:"size:1000" json:"description"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4)" json:"qty"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitRate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Refund is the payout record written when a return is refunded, in the same
// transaction as the status move.
type Refund struct {
	ID            int             `gorm:"primaryKey" json:"id"`
	StoreId       string          `gorm:"size:100;index:idx_refund_store;not null" json:"storeId"`
	RefundNumber  string          `gorm:"size:50" json:"refundNumber"`
	SequenceNo    int64           `gorm:"index:idx_refund_seq" json:"sequenceNo"`
	ReturnId      int             `gorm:"index:idx_refund_return" json:"returnId"`
	CustomerId    *int            `json:"customerId"`
	PaymentMethod PaymentMethod   `gorm:"size:50" json:"paymentMethod"`
	RefundDate    time.Time       `json:"refundDate"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func createInvoiceFromMemo(tx *gorm.DB, memo *Memo, paymentMethod PaymentMethod, paidAmount decimal.Decimal) error {
	seqNo, err := utils.GetSequence[Invoice](tx.Statement.Context, memo.StoreId)
	if err != nil {
		return err
	}

	invoice := Invoice{
		StoreId:          memo.StoreId,
		InvoiceNumber:    formatDocumentNumber(invoiceNumberPrefix, seqNo),
		SequenceNo:       seqNo,
		ReferenceType:    DocumentTypeMemo,
		ReferenceId:      memo.ID,
		VendorId:         memo.VendorId,
		PaymentMethod:    paymentMethod,
		InvoiceDate:      time.Now().UTC(),
		Subtotal:         memo.Subtotal,
		DiscountAmount:   memo.DiscountAmount,
		TaxAmount:        memo.TaxAmount,
		ServiceFeeAmount: memo.ServiceFeeAmount,
		ShippingCost:     memo.ShippingCost,
		TotalAmount:      memo.TotalAmount,
		PaidAmount:       paidAmount,
	}
	// sold lines only, restocked ones never made it onto the bill
	for _, item := range memo.Details {
		if utils.DereferencePtr(item.Restocked) {
			continue
		}
		invoice.Details = append(invoice.Details, InvoiceItem{
			StoreId:         memo.StoreId,
			InventoryItemId: item.InventoryItemId,
			Description:     item.Description,
			Qty:             item.Qty,
			UnitRate:        item.UnitRate,
			Amount:          item.Amount,
		})
	}

	return tx.Create(&invoice).Error
}

func createInvoiceFromRepair(tx *gorm.DB, repair *Repair, paymentMethod PaymentMethod, paidAmount decimal.Decimal) error {
	seqNo, err := utils.GetSequence[Invoice](tx.Statement.Context, repair.StoreId)
	if err != nil {
		return err
	}

	invoice := Invoice{
		StoreId:          repair.StoreId,
		InvoiceNumber:    formatDocumentNumber(invoiceNumberPrefix, seqNo),
		SequenceNo:       seqNo,
		ReferenceType:    repair.documentType(),
		ReferenceId:      repair.ID,
		VendorId:         repair.VendorId,
		CustomerId:       repair.CustomerId,
		PaymentMethod:    paymentMethod,
		InvoiceDate:      time.Now().UTC(),
		Subtotal:         repair.Subtotal,
		DiscountAmount:   repair.DiscountAmount,
		TaxAmount:        repair.TaxAmount,
		ServiceFeeAmount: repair.ServiceFeeAmount,
		ShippingCost:     repair.ShippingCost,
		TotalAmount:      repair.TotalAmount,
		PaidAmount:       paidAmount,
	}
	for _, item := range repair.Details {
		invoice.Details = append(invoice.Details, InvoiceItem{
			StoreId:         repair.StoreId,
			InventoryItemId: item.InventoryItemId,
			Description:     item.Description,
			Qty:             item.Qty,
			UnitRate:        item.UnitRate,
			Amount:          item.Amount,
		})
	}

	return tx.Create(&invoice).Error
}

func createRefundFromReturn(tx *gorm.DB, ret *Return, paymentMethod PaymentMethod, amount decimal.Decimal) error {
	seqNo, err := utils.GetSequence[Refund](tx.Statement.Context, ret.StoreId)
	if err != nil {
		return err
	}

	refund := Refund{
		StoreId:       ret.StoreId,
		RefundNumber:  formatDocumentNumber(refundNumberPrefix, seqNo),
		SequenceNo:    seqNo,
		ReturnId:      ret.ID,
		CustomerId:    ret.CustomerId,
		PaymentMethod: paymentMethod,
		RefundDate:    time.Now().UTC(),
		Amount:        amount,
	}

	return tx.Create(&refund).Error
}

func GetInvoice(ctx context.Context, storeId string, id int) (*Invoice, error) {
	return utils.FetchModel[Invoice](ctx, storeId, id, "Details")
}

func GetInvoices(ctx context.Context, storeId string) ([]*Invoice, error) {
	return utils.FetchAllModels[Invoice](ctx, storeId, "Details")
}

func GetRefunds(ctx context.Context, storeId string) ([]*Refund, error) {
	return utils.FetchAllModels[Refund](ctx, storeId)
}
