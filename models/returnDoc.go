package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const moduleNameReturn = "return"

// Return tracks a customer bringing goods back for a refund. Stock only moves
// when the return is refunded (or a line is explicitly restocked early);
// rejected and cancelled returns hand the goods back to the customer.
type Return struct {
	ID               int             `gorm:"primaryKey" json:"id"`
	StoreId          string          `gorm:"size:100;index:idx_return_store;not null" json:"storeId"`
	ReturnNumber     string          `gorm:"size:50" json:"returnNumber"`
	SequenceNo       int64           `gorm:"index:idx_return_seq" json:"sequenceNo"`
	CustomerId       *int            `json:"customerId"`
	Customer         *Customer       `json:"customer,omitempty"`
	CurrentStatus    ReturnStatus    `gorm:"size:50;index:idx_return_status" json:"currentStatus"`
	ReturnDate       time.Time       `json:"returnDate"`
	Reason           string          `gorm:"size:1000" json:"reason"`
	Notes            string          `gorm:"size:1000" json:"notes"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxRate"`
	Discount         decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount"`
	DiscountType     string          `gorm:"size:1" json:"discountType"`
	ServiceFee       decimal.Decimal `gorm:"type:decimal(20,4)" json:"serviceFee"`
	ServiceFeeType   string          `gorm:"size:1" json:"serviceFeeType"`
	ShippingCost     decimal.Decimal `gorm:"type:decimal(20,4)" json:"shippingCost"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(20,4)" json:"subtotal"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"discountAmount"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxAmount"`
	ServiceFeeAmount decimal.Decimal `gorm:"type:decimal(20,4)" json:"serviceFeeAmount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalAmount"`
	RefundedAmount   decimal.Decimal `gorm:"type:decimal(20,4)" json:"refundedAmount"`
	ReceivedAt       *time.Time      `json:"receivedAt"`
	RefundedAt       *time.Time      `json:"refundedAt"`
	RejectedAt       *time.Time      `json:"rejectedAt"`
	CancelledAt      *time.Time      `json:"cancelledAt"`
	Details          []ReturnItem    `gorm:"foreignKey:ReturnId" json:"details"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type ReturnItem struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	ReturnId        int             `gorm:"index:idx_return_item_return;not null" json:"returnId"`
	StoreId         string          `gorm:"size:100;index:idx_return_item_store;not null" json:"storeId"`
	InventoryItemId int             `gorm:"not null" json:"inventoryItemId"`
	Description     string          `gorm:"size:1000" json:"description"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4)" json:"qty"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitRate"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	Restocked       *bool           `gorm:"default:false" json:"restocked"`
	RestockedAt     *time.Time      `json:"restockedAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (d ReturnItem) lineAmount() decimal.Decimal {
	return d.Amount
}

type ReturnItemInput struct {
	InventoryItemId int             `json:"inventoryItemId" binding:"required"`
	Description     string          `json:"description"`
	Qty             decimal.Decimal `json:"qty" binding:"required"`
	UnitRate        decimal.Decimal `json:"unitRate"`
}

type ReturnInput struct {
	CustomerId     *int              `json:"customerId"`
	ReturnDate     time.Time         `json:"returnDate"`
	Reason         string            `json:"reason"`
	Notes          string            `json:"notes"`
	TaxRate        decimal.Decimal   `json:"taxRate"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountType   string            `json:"discountType" binding:"omitempty,oneof=P A"`
	ServiceFee     decimal.Decimal   `json:"serviceFee"`
	ServiceFeeType string            `json:"serviceFeeType" binding:"omitempty,oneof=P A"`
	ShippingCost   decimal.Decimal   `json:"shippingCost"`
	Details        []ReturnItemInput `json:"details" binding:"required,min=1,dive"`
}

func buildReturnItems(storeId string, inputs []ReturnItemInput) []ReturnItem {
	items := make([]ReturnItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, ReturnItem{
			StoreId:         storeId,
			InventoryItemId: in.InventoryItemId,
			Description:     in.Description,
			Qty:             in.Qty,
			UnitRate:        in.UnitRate,
			Amount:          in.Qty.Mul(in.UnitRate).Round(4),
			Restocked:       utils.NewFalse(),
		})
	}
	return items
}

func returnItemIds(inputs []ReturnItemInput) []int {
	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.InventoryItemId)
	}
	return ids
}

func validateReturnInput(ctx context.Context, storeId string, input ReturnInput) error {
	if input.CustomerId != nil {
		if err := utils.ValidateResourceId[Customer](ctx, storeId, *input.CustomerId); err != nil {
			return err
		}
	}
	return utils.ValidateResourcesId[InventoryItem](ctx, storeId, returnItemIds(input.Details))
}

func applyReturnTotals(ret *Return, input ReturnInput, items []ReturnItem) {
	totals := calculateDocumentTotals(items, totalsInput{
		Discount:       input.Discount,
		DiscountType:   input.DiscountType,
		TaxRate:        input.TaxRate,
		ServiceFee:     input.ServiceFee,
		ServiceFeeType: input.ServiceFeeType,
		ShippingCost:   input.ShippingCost,
	})
	ret.TaxRate = input.TaxRate
	ret.Discount = input.Discount
	ret.DiscountType = input.DiscountType
	ret.ServiceFee = input.ServiceFee
	ret.ServiceFeeType = input.ServiceFeeType
	ret.ShippingCost = totals.ShippingCost
	ret.Subtotal = totals.Subtotal
	ret.DiscountAmount = totals.DiscountAmount
	ret.TaxAmount = totals.TaxAmount
	ret.ServiceFeeAmount = totals.ServiceFeeAmount
	ret.TotalAmount = totals.TotalAmount
}

// CreateReturn opens a return request. No stock moves yet: the goods are
// still the customer's until the refund is issued.
func CreateReturn(ctx context.Context, storeId string, input ReturnInput) (*Return, error) {
	if err := validateReturnInput(ctx, storeId, input); err != nil {
		return nil, err
	}

	seqNo, err := utils.GetSequence[Return](ctx, storeId)
	if err != nil {
		return nil, err
	}

	returnDate := input.ReturnDate
	if returnDate.IsZero() {
		returnDate = time.Now().UTC()
	}

	ret := Return{
		StoreId:       storeId,
		ReturnNumber:  formatDocumentNumber(returnNumberPrefix, seqNo),
		SequenceNo:    seqNo,
		CustomerId:    input.CustomerId,
		CurrentStatus: ReturnStatusPending,
		ReturnDate:    returnDate,
		Reason:        input.Reason,
		Notes:         input.Notes,
		Details:       buildReturnItems(storeId, input.Details),
	}
	applyReturnTotals(&ret, input, ret.Details)

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ret).Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        "Create",
		ToStatus:      string(ret.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeReturn, ret.ID, "Create")

	return &ret, nil
}

func UpdateReturn(ctx context.Context, storeId string, id int, input ReturnInput) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if ret.CurrentStatus != ReturnStatusPending {
		return nil, &MissingPrerequisiteError{Reason: "only pending returns can be edited"}
	}
	if err := validateReturnInput(ctx, storeId, input); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	if err := tx.Where("return_id = ?", ret.ID).Delete(&ReturnItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	ret.CustomerId = input.CustomerId
	if !input.ReturnDate.IsZero() {
		ret.ReturnDate = input.ReturnDate
	}
	ret.Reason = input.Reason
	ret.Notes = input.Notes
	ret.Details = buildReturnItems(storeId, input.Details)
	applyReturnTotals(ret, input, ret.Details)

	if err := tx.Save(ret).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        "Update",
		ToStatus:      string(ret.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeReturn, ret.ID, "Update")

	return ret, nil
}

func DeleteReturn(ctx context.Context, storeId string, id int) error {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return err
	}
	if ret.CurrentStatus != ReturnStatusPending {
		return &MissingPrerequisiteError{Reason: "only pending returns can be deleted"}
	}
	for _, item := range ret.Details {
		if utils.DereferencePtr(item.Restocked) {
			return &MissingPrerequisiteError{Reason: "returns with restocked items cannot be deleted"}
		}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return err
	}

	if err := tx.Where("return_id = ?", ret.ID).Delete(&ReturnItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(ret).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        "Delete",
		FromStatus:    string(ret.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeReturn, ret.ID, "Delete")

	return nil
}

// ReceiveReturnItems records the customer handing the goods over the counter.
func ReceiveReturnItems(ctx context.Context, storeId string, id int) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(returnTransitions, ret.CurrentStatus, ReturnStatusItemsReceived) {
		return nil, newInvalidTransition(DocumentTypeReturn, ret.CurrentStatus, ReturnStatusItemsReceived)
	}
	if ret.CustomerId == nil {
		return nil, &MissingPrerequisiteError{Reason: "return has no customer assigned"}
	}
	if len(ret.Details) == 0 {
		return nil, &MissingPrerequisiteError{Reason: "return has no line items"}
	}

	now := time.Now().UTC()
	return transitionReturn(ctx, storeId, ret, ReturnStatusItemsReceived, "Receive Items", map[string]interface{}{
		"CurrentStatus": ReturnStatusItemsReceived,
		"ReceivedAt":    &now,
	}, nil)
}

// RefundReturn issues the refund: the goods go back into stock and a refund
// record is written in the same transaction. Lines restocked earlier through
// the single-item path are skipped without error. The return is fetched under
// the store lock so the restock decisions never read a stale snapshot.
func RefundReturn(ctx context.Context, storeId string, id int, input PaymentInput) (*Return, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameReturn, "RefundReturn")
	if err != nil {
		return nil, err
	}
	defer release()

	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(returnTransitions, ret.CurrentStatus, ReturnStatusRefunded) {
		return nil, newInvalidTransition(DocumentTypeReturn, ret.CurrentStatus, ReturnStatusRefunded)
	}
	paymentMethod, err := ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	refundAmount := input.Amount
	if refundAmount.LessThanOrEqual(decimal.Zero) {
		refundAmount = ret.TotalAmount
	}

	now := time.Now().UTC()
	return transitionReturn(ctx, storeId, ret, ReturnStatusRefunded, "Refund", map[string]interface{}{
		"CurrentStatus":  ReturnStatusRefunded,
		"RefundedAt":     &now,
		"RefundedAmount": refundAmount,
	}, func(tx *gorm.DB, storeId string, r *Return) error {
		if err := restockReturnItems(tx, storeId, r); err != nil {
			return err
		}
		return createRefundFromReturn(tx, r, paymentMethod, refundAmount)
	})
}

// RejectReturn declines the return; the goods go back to the customer, so
// stock is untouched.
func RejectReturn(ctx context.Context, storeId string, id int) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(returnTransitions, ret.CurrentStatus, ReturnStatusRejected) {
		return nil, newInvalidTransition(DocumentTypeReturn, ret.CurrentStatus, ReturnStatusRejected)
	}

	now := time.Now().UTC()
	return transitionReturn(ctx, storeId, ret, ReturnStatusRejected, "Reject", map[string]interface{}{
		"CurrentStatus": ReturnStatusRejected,
		"RejectedAt":    &now,
	}, nil)
}

func ArchiveReturn(ctx context.Context, storeId string, id int) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(returnTransitions, ret.CurrentStatus, ReturnStatusArchived) {
		return nil, newInvalidTransition(DocumentTypeReturn, ret.CurrentStatus, ReturnStatusArchived)
	}

	return transitionReturn(ctx, storeId, ret, ReturnStatusArchived, "Archive", map[string]interface{}{
		"CurrentStatus": ReturnStatusArchived,
	}, nil)
}

func CancelReturn(ctx context.Context, storeId string, id int) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(returnTransitions, ret.CurrentStatus, ReturnStatusCancelled) {
		return nil, newInvalidTransition(DocumentTypeReturn, ret.CurrentStatus, ReturnStatusCancelled)
	}

	now := time.Now().UTC()
	return transitionReturn(ctx, storeId, ret, ReturnStatusCancelled, "Cancel", map[string]interface{}{
		"CurrentStatus": ReturnStatusCancelled,
		"CancelledAt":   &now,
	}, nil)
}

func ChangeReturnStatus(ctx context.Context, storeId string, id int, targetStatus string, remark string) (*Return, error) {
	ret, err := utils.FetchModel[Return](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	status, err := ParseReturnStatus(targetStatus)
	if err != nil {
		return nil, err
	}
	if status == ret.CurrentStatus {
		return ret, nil
	}

	fromStatus := ret.CurrentStatus
	updates := statusDateUpdates(status, returnDateColumns, returnKeptDates, returnOwnDate, time.Now().UTC())

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(ret).Updates(updates).Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        "Change Status",
		FromStatus:    string(fromStatus),
		ToStatus:      string(status),
		Remark:        remark,
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeReturn, ret.ID, "Change Status")

	return utils.FetchModel[Return](ctx, storeId, id, "Details")
}

// RestockReturnItem puts one received line back into stock ahead of the
// refund. Asking again for an already restocked line is an error; the bulk
// restock at refund time will skip it silently.
func RestockReturnItem(ctx context.Context, storeId string, returnId int, itemId int) (*ReturnItem, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameReturn, "RestockReturnItem")
	if err != nil {
		return nil, err
	}
	defer release()

	ret, err := utils.FetchModel[Return](ctx, storeId, returnId, "Details")
	if err != nil {
		return nil, err
	}
	if ret.CurrentStatus != ReturnStatusItemsReceived && ret.CurrentStatus != ReturnStatusRefunded {
		return nil, &MissingPrerequisiteError{Reason: "return items can only be restocked after they are received"}
	}

	var item *ReturnItem
	for i := range ret.Details {
		if ret.Details[i].ID == itemId {
			item = &ret.Details[i]
			break
		}
	}
	if item == nil {
		return nil, utils.ErrorRecordNotFound
	}
	if utils.DereferencePtr(item.Restocked) {
		return nil, &AlreadyProcessedError{Subject: "return item " + item.Description}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	if err := restockSingleReturnItem(tx, storeId, item); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        "Restock Item",
		ToStatus:      string(ret.CurrentStatus),
	})

	return item, nil
}

func GetReturn(ctx context.Context, storeId string, id int) (*Return, error) {
	return utils.FetchModel[Return](ctx, storeId, id, "Details", "Customer")
}

func GetReturns(ctx context.Context, storeId string) ([]*Return, error) {
	return utils.FetchAllModels[Return](ctx, storeId, "Details", "Customer")
}

func transitionReturn(ctx context.Context, storeId string, ret *Return, target ReturnStatus, action string,
	updates map[string]interface{}, sideEffect func(tx *gorm.DB, storeId string, r *Return) error) (*Return, error) {

	fromStatus := ret.CurrentStatus

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	// the status guard makes the move race-proof: if another transition won,
	// nothing matches and the whole move is abandoned
	result := tx.Model(ret).Where("current_status = ?", fromStatus).Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, newInvalidTransition(DocumentTypeReturn, fromStatus, target)
	}
	if sideEffect != nil {
		if err := sideEffect(tx, storeId, ret); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   ret.ID,
		ReferenceType: DocumentTypeReturn,
		Action:        action,
		FromStatus:    string(fromStatus),
		ToStatus:      string(target),
	})
	publishDocumentEvent(ctx, storeId, DocumentTypeReturn, ret.ID, action)

	return utils.FetchModel[Return](ctx, storeId, ret.ID, "Details")
}
