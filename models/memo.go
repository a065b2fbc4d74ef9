package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const moduleNameMemo = "memo"

// Memo is a consignment document: goods leave the store's stock when the memo
// is created and come back (or convert to a sale) as the memo moves through
// its lifecycle.
type Memo struct {
	ID                int             `gorm:"primaryKey" json:"id"`
	StoreId           string          `gorm:"size:100;index:idx_memo_store;not null" json:"storeId"`
	MemoNumber        string          `gorm:"size:50" json:"memoNumber"`
	SequenceNo        int64           `gorm:"index:idx_memo_seq" json:"sequenceNo"`
	VendorId          *int            `json:"vendorId"`
	Vendor            *Vendor         `json:"vendor,omitempty"`
	CurrentStatus     MemoStatus      `gorm:"size:50;index:idx_memo_status" json:"currentStatus"`
	MemoDate          time.Time       `json:"memoDate"`
	Notes             string          `gorm:"size:1000" json:"notes"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxRate"`
	Discount          decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount"`
	DiscountType      string          `gorm:"size:1" json:"discountType"`
	ServiceFee        decimal.Decimal `gorm:"type:decimal(20,4)" json:"serviceFee"`
	ServiceFeeType    string          `gorm:"size:1" json:"serviceFeeType"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(20,4)" json:"shippingCost"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(20,4)" json:"subtotal"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(20,4)" json:"discountAmount"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxAmount"`
	ServiceFeeAmount  decimal.Decimal `gorm:"type:decimal(20,4)" json:"serviceFeeAmount"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalAmount"`
	PaidAmount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"paidAmount"`
	BalanceAmount     decimal.Decimal `gorm:"type:decimal(20,4)" json:"balanceAmount"`
	SentAt            *time.Time      `json:"sentAt"`
	ReceivedAt        *time.Time      `json:"receivedAt"`
	ReturnedAt        *time.Time      `json:"returnedAt"`
	PaymentReceivedAt *time.Time      `json:"paymentReceivedAt"`
	CancelledAt       *time.Time      `json:"cancelledAt"`
	Details           []MemoItem      `gorm:"foreignKey:MemoId" json:"details"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type MemoItem struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	MemoId          int             `gorm:"index:idx_memo_item_memo;not null" json:"memoId"`
	StoreId         string          `gorm:"size:100;index:idx_memo_item_store;not null" json:"storeId"`
	InventoryItemId int             `gorm:"not null" json:"inventoryItemId"`
	Description     string          `gorm:"size:1000" json:"description"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4)" json:"qty"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitRate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	Restocked       *bool           `gorm:"default:false" json:"restocked"`
	RestockedAt     *time.Time      `json:"restockedAt"`
	Sold            *bool           `gorm:"default:false" json:"sold"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (d MemoItem) lineAmount() decimal.Decimal {
	return d.Amount
}

type MemoItemInput struct {
	InventoryItemId int             `json:"inventoryItemId" binding:"required"`
	Description     string          `json:"description"`
	Qty             decimal.Decimal `json:"qty" binding:"required"`
	UnitRate        decimal.Decimal `json:"unitRate"`
}

type MemoInput struct {
	VendorId       *int            `json:"vendorId"`
	MemoDate       time.Time       `json:"memoDate"`
	Notes          string          `json:"notes"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	Discount       decimal.Decimal `json:"discount"`
	DiscountType   string          `json:"discountType" binding:"omitempty,oneof=P A"`
	ServiceFee     decimal.Decimal `json:"serviceFee"`
	ServiceFeeType string          `json:"serviceFeeType" binding:"omitempty,oneof=P A"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
	Details        []MemoItemInput `json:"details" binding:"required,min=1,dive"`
}

type PaymentInput struct {
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

func buildMemoItems(storeId string, inputs []MemoItemInput) []MemoItem {
	items := make([]MemoItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, MemoItem{
			StoreId:         storeId,
			InventoryItemId: in.InventoryItemId,
			Description:     in.Description,
			Qty:             in.Qty,
			UnitRate:        in.UnitRate,
			Amount:          in.Qty.Mul(in.UnitRate).Round(4),
			Restocked:       utils.NewFalse(),
			Sold:            utils.NewFalse(),
		})
	}
	return items
}

func memoItemIds(inputs []MemoItemInput) []int {
	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.InventoryItemId)
	}
	return ids
}

func CreateMemo(ctx context.Context, storeId string, input MemoInput) (*Memo, error) {
	if input.VendorId != nil {
		if err := utils.ValidateResourceId[Vendor](ctx, storeId, *input.VendorId); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateResourcesId[InventoryItem](ctx, storeId, memoItemIds(input.Details)); err != nil {
		return nil, err
	}

	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "CreateMemo")
	if err != nil {
		return nil, err
	}
	defer release()

	seqNo, err := utils.GetSequence[Memo](ctx, storeId)
	if err != nil {
		return nil, err
	}

	memoDate := input.MemoDate
	if memoDate.IsZero() {
		memoDate = time.Now().UTC()
	}

	items := buildMemoItems(storeId, input.Details)
	totals := calculateDocumentTotals(items, totalsInput{
		Discount:       input.Discount,
		DiscountType:   input.DiscountType,
		TaxRate:        input.TaxRate,
		ServiceFee:     input.ServiceFee,
		ServiceFeeType: input.ServiceFeeType,
		ShippingCost:   input.ShippingCost,
	})

	memo := Memo{
		StoreId:          storeId,
		MemoNumber:       formatDocumentNumber(memoNumberPrefix, seqNo),
		SequenceNo:       seqNo,
		VendorId:         input.VendorId,
		CurrentStatus:    MemoStatusPending,
		MemoDate:         memoDate,
		Notes:            input.Notes,
		TaxRate:          input.TaxRate,
		Discount:         input.Discount,
		DiscountType:     input.DiscountType,
		ServiceFee:       input.ServiceFee,
		ServiceFeeType:   input.ServiceFeeType,
		ShippingCost:     totals.ShippingCost,
		Subtotal:         totals.Subtotal,
		DiscountAmount:   totals.DiscountAmount,
		TaxAmount:        totals.TaxAmount,
		ServiceFeeAmount: totals.ServiceFeeAmount,
		TotalAmount:      totals.TotalAmount,
		BalanceAmount:    totals.TotalAmount,
		Details:          items,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	if err := tx.Create(&memo).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	// consigned goods leave stock at creation
	if err := removeMemoItemsFromStock(tx, storeId, memo.Details); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        "Create",
		ToStatus:      string(memo.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeMemo, memo.ID, "Create")

	return &memo, nil
}

// UpdateMemo replaces the memo's header fields and line items. Only Pending
// memos are editable; stock moves back for the old lines and out for the new
// ones in the same transaction.
func UpdateMemo(ctx context.Context, storeId string, id int, input MemoInput) (*Memo, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "UpdateMemo")
	if err != nil {
		return nil, err
	}
	defer release()

	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if memo.CurrentStatus != MemoStatusPending {
		return nil, &MissingPrerequisiteError{Reason: "only pending memos can be edited"}
	}
	if input.VendorId != nil {
		if err := utils.ValidateResourceId[Vendor](ctx, storeId, *input.VendorId); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateResourcesId[InventoryItem](ctx, storeId, memoItemIds(input.Details)); err != nil {
		return nil, err
	}

	items := buildMemoItems(storeId, input.Details)
	totals := calculateDocumentTotals(items, totalsInput{
		Discount:       input.Discount,
		DiscountType:   input.DiscountType,
		TaxRate:        input.TaxRate,
		ServiceFee:     input.ServiceFee,
		ServiceFeeType: input.ServiceFeeType,
		ShippingCost:   input.ShippingCost,
	})

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	// put the old lines back before swapping them out
	if err := returnMemoItemsToStock(tx, storeId, memo.Details); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("memo_id = ?", memo.ID).Delete(&MemoItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	memo.VendorId = input.VendorId
	if !input.MemoDate.IsZero() {
		memo.MemoDate = input.MemoDate
	}
	memo.Notes = input.Notes
	memo.TaxRate = input.TaxRate
	memo.Discount = input.Discount
	memo.DiscountType = input.DiscountType
	memo.ServiceFee = input.ServiceFee
	memo.ServiceFeeType = input.ServiceFeeType
	memo.ShippingCost = totals.ShippingCost
	memo.Subtotal = totals.Subtotal
	memo.DiscountAmount = totals.DiscountAmount
	memo.TaxAmount = totals.TaxAmount
	memo.ServiceFeeAmount = totals.ServiceFeeAmount
	memo.TotalAmount = totals.TotalAmount
	memo.BalanceAmount = totals.TotalAmount.Sub(memo.PaidAmount)
	memo.Details = items

	if err := tx.Save(memo).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := removeMemoItemsFromStock(tx, storeId, memo.Details); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        "Update",
		ToStatus:      string(memo.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeMemo, memo.ID, "Update")

	return memo, nil
}

func DeleteMemo(ctx context.Context, storeId string, id int) error {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "DeleteMemo")
	if err != nil {
		return err
	}
	defer release()

	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return err
	}
	if memo.CurrentStatus != MemoStatusPending {
		return &MissingPrerequisiteError{Reason: "only pending memos can be deleted"}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return err
	}

	if err := returnMemoItemsToStock(tx, storeId, memo.Details); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("memo_id = ?", memo.ID).Delete(&MemoItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(memo).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        "Delete",
		FromStatus:    string(memo.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeMemo, memo.ID, "Delete")

	return nil
}

func SendMemoToVendor(ctx context.Context, storeId string, id int) (*Memo, error) {
	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusSentToVendor) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusSentToVendor)
	}
	if memo.VendorId == nil {
		return nil, &MissingPrerequisiteError{Reason: "memo has no vendor assigned"}
	}
	if len(memo.Details) == 0 {
		return nil, &MissingPrerequisiteError{Reason: "memo has no line items"}
	}

	now := time.Now().UTC()
	return transitionMemo(ctx, storeId, memo, MemoStatusSentToVendor, "Send To Vendor", map[string]interface{}{
		"CurrentStatus": MemoStatusSentToVendor,
		"SentAt":        &now,
	}, nil)
}

func MarkMemoReceived(ctx context.Context, storeId string, id int) (*Memo, error) {
	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusVendorReceived) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusVendorReceived)
	}

	now := time.Now().UTC()
	return transitionMemo(ctx, storeId, memo, MemoStatusVendorReceived, "Mark Received", map[string]interface{}{
		"CurrentStatus": MemoStatusVendorReceived,
		"ReceivedAt":    &now,
	}, nil)
}

// MarkMemoReturned records the vendor sending the goods back. Every line that
// has not already been restocked goes back into stock; lines restocked
// earlier are skipped without error. The memo is fetched under the store lock
// so the restock decisions never read a stale snapshot.
func MarkMemoReturned(ctx context.Context, storeId string, id int) (*Memo, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "MarkMemoReturned")
	if err != nil {
		return nil, err
	}
	defer release()

	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusVendorReturned) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusVendorReturned)
	}

	now := time.Now().UTC()
	return transitionMemo(ctx, storeId, memo, MemoStatusVendorReturned, "Mark Returned", map[string]interface{}{
		"CurrentStatus": MemoStatusVendorReturned,
		"ReturnedAt":    &now,
	}, restockMemoItems)
}

// ReceiveMemoPayment settles the memo: the vendor keeps the goods and pays.
// Remaining lines are marked sold and an invoice is written in the same
// transaction.
func ReceiveMemoPayment(ctx context.Context, storeId string, id int, input PaymentInput) (*Memo, error) {
	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusPaymentReceived) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusPaymentReceived)
	}
	paymentMethod, err := ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	paidAmount := input.Amount
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		paidAmount = memo.TotalAmount
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"CurrentStatus":     MemoStatusPaymentReceived,
		"PaymentReceivedAt": &now,
		"PaidAmount":        paidAmount,
		"BalanceAmount":     memo.TotalAmount.Sub(paidAmount),
	}

	return transitionMemo(ctx, storeId, memo, MemoStatusPaymentReceived, "Receive Payment", updates,
		func(tx *gorm.DB, storeId string, m *Memo) error {
			if err := markMemoItemsSold(tx, storeId, m.Details); err != nil {
				return err
			}
			return createInvoiceFromMemo(tx, m, paymentMethod, paidAmount)
		})
}

func ArchiveMemo(ctx context.Context, storeId string, id int) (*Memo, error) {
	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusArchived) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusArchived)
	}

	return transitionMemo(ctx, storeId, memo, MemoStatusArchived, "Archive", map[string]interface{}{
		"CurrentStatus": MemoStatusArchived,
	}, nil)
}

// CancelMemo aborts the memo from any non-terminal status. Goods still out
// with the vendor are restocked; sold lines stay sold.
func CancelMemo(ctx context.Context, storeId string, id int) (*Memo, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "CancelMemo")
	if err != nil {
		return nil, err
	}
	defer release()

	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(memoTransitions, memo.CurrentStatus, MemoStatusCancelled) {
		return nil, newInvalidTransition(DocumentTypeMemo, memo.CurrentStatus, MemoStatusCancelled)
	}

	now := time.Now().UTC()
	return transitionMemo(ctx, storeId, memo, MemoStatusCancelled, "Cancel", map[string]interface{}{
		"CurrentStatus": MemoStatusCancelled,
		"CancelledAt":   &now,
	}, restockMemoItems)
}

// ChangeMemoStatus is the administrative correction path. It moves the memo
// to any status without running side effects; timestamps are realigned to the
// new status and the correction is audited with its remark.
func ChangeMemoStatus(ctx context.Context, storeId string, id int, targetStatus string, remark string) (*Memo, error) {
	memo, err := utils.FetchModel[Memo](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	status, err := ParseMemoStatus(targetStatus)
	if err != nil {
		return nil, err
	}
	if status == memo.CurrentStatus {
		return memo, nil
	}

	fromStatus := memo.CurrentStatus
	updates := statusDateUpdates(status, memoDateColumns, memoKeptDates, memoOwnDate, time.Now().UTC())

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(memo).Updates(updates).Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        "Change Status",
		FromStatus:    string(fromStatus),
		ToStatus:      string(status),
		Remark:        remark,
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeMemo, memo.ID, "Change Status")

	return utils.FetchModel[Memo](ctx, storeId, id, "Details")
}

// RestockMemoItem puts a single line back into stock outside the bulk paths.
// Unlike the bulk restock, asking again for an already restocked line is an
// error.
func RestockMemoItem(ctx context.Context, storeId string, memoId int, itemId int) (*MemoItem, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameMemo, "RestockMemoItem")
	if err != nil {
		return nil, err
	}
	defer release()

	memo, err := utils.FetchModel[Memo](ctx, storeId, memoId, "Details")
	if err != nil {
		return nil, err
	}
	if memo.CurrentStatus != MemoStatusVendorReturned && memo.CurrentStatus != MemoStatusCancelled {
		return nil, &MissingPrerequisiteError{Reason: "memo items can only be restocked after return or cancellation"}
	}

	var item *MemoItem
	for i := range memo.Details {
		if memo.Details[i].ID == itemId {
			item = &memo.Details[i]
			break
		}
	}
	if item == nil {
		return nil, utils.ErrorRecordNotFound
	}
	if utils.DereferencePtr(item.Sold) {
		return nil, &MissingPrerequisiteError{Reason: "sold items cannot be restocked"}
	}
	if utils.DereferencePtr(item.Restocked) {
		return nil, &AlreadyProcessedError{Subject: "memo item " + item.Description}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	if err := restockSingleMemoItem(tx, storeId, item); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        "Restock Item",
		ToStatus:      string(memo.CurrentStatus),
	})

	return item, nil
}

func GetMemo(ctx context.Context, storeId string, id int) (*Memo, error) {
	return utils.FetchModel[Memo](ctx, storeId, id, "Details", "Vendor")
}

func GetMemos(ctx context.Context, storeId string) ([]*Memo, error) {
	return utils.FetchAllModels[Memo](ctx, storeId, "Details", "Vendor")
}

// transitionMemo applies a validated status move: header updates plus an
// optional stock side effect in one transaction, then the audit row and the
// document event after commit.
func transitionMemo(ctx context.Context, storeId string, memo *Memo, target MemoStatus, action string,
	updates map[string]interface{}, sideEffect func(tx *gorm.DB, storeId string, m *Memo) error) (*Memo, error) {

	fromStatus := memo.CurrentStatus

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	// the status guard makes the move race-proof: if another transition won,
	// nothing matches and the whole move is abandoned
	result := tx.Model(memo).Where("current_status = ?", fromStatus).Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, newInvalidTransition(DocumentTypeMemo, fromStatus, target)
	}
	if sideEffect != nil {
		if err := sideEffect(tx, storeId, memo); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   memo.ID,
		ReferenceType: DocumentTypeMemo,
		Action:        action,
		FromStatus:    string(fromStatus),
		ToStatus:      string(target),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeMemo, memo.ID, action)

	return utils.FetchModel[Memo](ctx, storeId, memo.ID, "Details")
}
