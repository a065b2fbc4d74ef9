package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const moduleNameRepair = "repair"

// Repair tracks pieces sent out to a vendor for repair or appraisal work.
// The pieces leave stock on creation and come back when the work completes,
// is rejected or the job is cancelled; payment covers the service charge.
// Appraisals share the model and lifecycle, flagged by IsAppraisal.
type Repair struct {
	ID                int             `gorm:"primaryKey" json:"id"`
	StoreId           string          `gorm:"size:100;index:idx_repair_store;not null" json:"storeId"`
	RepairNumber      string          `gorm:"size:50" json:"repairNumber"`
	SequenceNo        int64           `gorm:"index:idx_repair_seq" json:"sequenceNo"`
	IsAppraisal       *bool           `gorm:"default:false" json:"isAppraisal"`
	VendorId          *int            `json:"vendorId"`
	Vendor            *Vendor         `json:"vendor,omitempty"`
	CustomerId        *int            `json:"customerId"`
	Customer          *Customer       `json:"customer,omitempty"`
	CurrentStatus     RepairStatus    `gorm:"size:50;index:idx_repair_status" json:"currentStatus"`
	RepairDate        time.Time       `json:"repairDate"`
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
	CompletedAt       *time.Time      `json:"completedAt"`
	PaymentReceivedAt *time.Time      `json:"paymentReceivedAt"`
	RejectedAt        *time.Time      `json:"rejectedAt"`
	CancelledAt       *time.Time      `json:"cancelledAt"`
	Details           []RepairItem    `gorm:"foreignKey:RepairId" json:"details"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (r *Repair) documentType() DocumentType {
	if utils.DereferencePtr(r.IsAppraisal) {
		return DocumentTypeAppraisal
	}
	return DocumentTypeRepair
}

type RepairItem struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	RepairId        int             `gorm:"index:idx_repair_item_repair;not null" json:"repairId"`
	StoreId         string          `gorm:"size:100;index:idx_repair_item_store;not null" json:"storeId"`
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

func (d RepairItem) lineAmount() decimal.Decimal {
	return d.Amount
}

type RepairItemInput struct {
	InventoryItemId int             `json:"inventoryItemId" binding:"required"`
	Description     string          `json:"description"`
	Qty             decimal.Decimal `json:"qty" binding:"required"`
	UnitRate        decimal.Decimal `json:"unitRate"`
}

type RepairInput struct {
	IsAppraisal    *bool             `json:"isAppraisal"`
	VendorId       *int              `json:"vendorId"`
	CustomerId     *int              `json:"customerId"`
	RepairDate     time.Time         `json:"repairDate"`
	Notes          string            `json:"notes"`
	TaxRate        decimal.Decimal   `json:"taxRate"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountType   string            `json:"discountType" binding:"omitempty,oneof=P A"`
	ServiceFee     decimal.Decimal   `json:"serviceFee"`
	ServiceFeeType string            `json:"serviceFeeType" binding:"omitempty,oneof=P A"`
	ShippingCost   decimal.Decimal   `json:"shippingCost"`
	Details        []RepairItemInput `json:"details" binding:"required,min=1,dive"`
}

func buildRepairItems(storeId string, inputs []RepairItemInput) []RepairItem {
	items := make([]RepairItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, RepairItem{
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

func repairItemIds(inputs []RepairItemInput) []int {
	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.InventoryItemId)
	}
	return ids
}

func validateRepairInput(ctx context.Context, storeId string, input RepairInput) error {
	if input.VendorId != nil {
		if err := utils.ValidateResourceId[Vendor](ctx, storeId, *input.VendorId); err != nil {
			return err
		}
	}
	if input.CustomerId != nil {
		if err := utils.ValidateResourceId[Customer](ctx, storeId, *input.CustomerId); err != nil {
			return err
		}
	}
	return utils.ValidateResourcesId[InventoryItem](ctx, storeId, repairItemIds(input.Details))
}

func CreateRepair(ctx context.Context, storeId string, input RepairInput) (*Repair, error) {
	if err := validateRepairInput(ctx, storeId, input); err != nil {
		return nil, err
	}

	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "CreateRepair")
	if err != nil {
		return nil, err
	}
	defer release()

	seqNo, err := utils.GetSequence[Repair](ctx, storeId)
	if err != nil {
		return nil, err
	}

	repairDate := input.RepairDate
	if repairDate.IsZero() {
		repairDate = time.Now().UTC()
	}

	numberPrefix := repairNumberPrefix
	if utils.DereferencePtr(input.IsAppraisal) {
		numberPrefix = appraisalNumberPrefix
	}

	items := buildRepairItems(storeId, input.Details)
	totals := calculateDocumentTotals(items, totalsInput{
		Discount:       input.Discount,
		DiscountType:   input.DiscountType,
		TaxRate:        input.TaxRate,
		ServiceFee:     input.ServiceFee,
		ServiceFeeType: input.ServiceFeeType,
		ShippingCost:   input.ShippingCost,
	})

	repair := Repair{
		StoreId:          storeId,
		RepairNumber:     formatDocumentNumber(numberPrefix, seqNo),
		SequenceNo:       seqNo,
		IsAppraisal:      input.IsAppraisal,
		VendorId:         input.VendorId,
		CustomerId:       input.CustomerId,
		CurrentStatus:    RepairStatusPending,
		RepairDate:       repairDate,
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

	if err := tx.Create(&repair).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := removeRepairItemsFromStock(tx, storeId, repair.Details); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        "Create",
		ToStatus:      string(repair.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, repair.documentType(), repair.ID, "Create")

	return &repair, nil
}

func UpdateRepair(ctx context.Context, storeId string, id int, input RepairInput) (*Repair, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "UpdateRepair")
	if err != nil {
		return nil, err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if repair.CurrentStatus != RepairStatusPending {
		return nil, &MissingPrerequisiteError{Reason: "only pending repairs can be edited"}
	}
	if err := validateRepairInput(ctx, storeId, input); err != nil {
		return nil, err
	}

	items := buildRepairItems(storeId, input.Details)
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

	if err := returnRepairItemsToStock(tx, storeId, repair.Details); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("repair_id = ?", repair.ID).Delete(&RepairItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	repair.VendorId = input.VendorId
	repair.CustomerId = input.CustomerId
	if !input.RepairDate.IsZero() {
		repair.RepairDate = input.RepairDate
	}
	repair.Notes = input.Notes
	repair.TaxRate = input.TaxRate
	repair.Discount = input.Discount
	repair.DiscountType = input.DiscountType
	repair.ServiceFee = input.ServiceFee
	repair.ServiceFeeType = input.ServiceFeeType
	repair.ShippingCost = totals.ShippingCost
	repair.Subtotal = totals.Subtotal
	repair.DiscountAmount = totals.DiscountAmount
	repair.TaxAmount = totals.TaxAmount
	repair.ServiceFeeAmount = totals.ServiceFeeAmount
	repair.TotalAmount = totals.TotalAmount
	repair.BalanceAmount = totals.TotalAmount.Sub(repair.PaidAmount)
	repair.Details = items

	if err := tx.Save(repair).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := removeRepairItemsFromStock(tx, storeId, repair.Details); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        "Update",
		ToStatus:      string(repair.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, repair.documentType(), repair.ID, "Update")

	return repair, nil
}

func DeleteRepair(ctx context.Context, storeId string, id int) error {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "DeleteRepair")
	if err != nil {
		return err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return err
	}
	if repair.CurrentStatus != RepairStatusPending {
		return &MissingPrerequisiteError{Reason: "only pending repairs can be deleted"}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return err
	}

	if err := returnRepairItemsToStock(tx, storeId, repair.Details); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("repair_id = ?", repair.ID).Delete(&RepairItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(repair).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        "Delete",
		FromStatus:    string(repair.CurrentStatus),
	})
	publishDocumentEvent(ctx, storeId, repair.documentType(), repair.ID, "Delete")

	return nil
}

func SendRepairToVendor(ctx context.Context, storeId string, id int) (*Repair, error) {
	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusSentToVendor) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusSentToVendor)
	}
	if repair.VendorId == nil {
		return nil, &MissingPrerequisiteError{Reason: "repair has no vendor assigned"}
	}
	if len(repair.Details) == 0 {
		return nil, &MissingPrerequisiteError{Reason: "repair has no line items"}
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusSentToVendor, "Send To Vendor", map[string]interface{}{
		"CurrentStatus": RepairStatusSentToVendor,
		"SentAt":        &now,
	}, nil)
}

func MarkRepairReceived(ctx context.Context, storeId string, id int) (*Repair, error) {
	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusVendorReceived) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusVendorReceived)
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusVendorReceived, "Mark Received", map[string]interface{}{
		"CurrentStatus": RepairStatusVendorReceived,
		"ReceivedAt":    &now,
	}, nil)
}

// CompleteRepair records the finished work coming back; the pieces go back
// into stock. The repair is fetched under the store lock so the restock
// decisions never read a stale snapshot.
func CompleteRepair(ctx context.Context, storeId string, id int) (*Repair, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "CompleteRepair")
	if err != nil {
		return nil, err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusCompleted) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusCompleted)
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusCompleted, "Complete", map[string]interface{}{
		"CurrentStatus": RepairStatusCompleted,
		"CompletedAt":   &now,
	}, restockRepairItems)
}

// ReceiveRepairPayment settles the service charge and writes the invoice in
// the same transaction. No stock movement: the pieces came back at Completed.
func ReceiveRepairPayment(ctx context.Context, storeId string, id int, input PaymentInput) (*Repair, error) {
	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusPaymentReceived) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusPaymentReceived)
	}
	paymentMethod, err := ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	paidAmount := input.Amount
	if paidAmount.LessThanOrEqual(decimal.Zero) {
		paidAmount = repair.TotalAmount
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusPaymentReceived, "Receive Payment", map[string]interface{}{
		"CurrentStatus":     RepairStatusPaymentReceived,
		"PaymentReceivedAt": &now,
		"PaidAmount":        paidAmount,
		"BalanceAmount":     repair.TotalAmount.Sub(paidAmount),
	}, func(tx *gorm.DB, storeId string, r *Repair) error {
		return createInvoiceFromRepair(tx, r, paymentMethod, paidAmount)
	})
}

// RejectRepair records the vendor declining the job; the untouched pieces go
// back into stock.
func RejectRepair(ctx context.Context, storeId string, id int) (*Repair, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "RejectRepair")
	if err != nil {
		return nil, err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusRejected) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusRejected)
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusRejected, "Reject", map[string]interface{}{
		"CurrentStatus": RepairStatusRejected,
		"RejectedAt":    &now,
	}, restockRepairItems)
}

func ArchiveRepair(ctx context.Context, storeId string, id int) (*Repair, error) {
	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusArchived) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusArchived)
	}

	return transitionRepair(ctx, storeId, repair, RepairStatusArchived, "Archive", map[string]interface{}{
		"CurrentStatus": RepairStatusArchived,
	}, nil)
}

func CancelRepair(ctx context.Context, storeId string, id int) (*Repair, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "CancelRepair")
	if err != nil {
		return nil, err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	if !canTransition(repairTransitions, repair.CurrentStatus, RepairStatusCancelled) {
		return nil, newInvalidTransition(repair.documentType(), repair.CurrentStatus, RepairStatusCancelled)
	}

	now := time.Now().UTC()
	return transitionRepair(ctx, storeId, repair, RepairStatusCancelled, "Cancel", map[string]interface{}{
		"CurrentStatus": RepairStatusCancelled,
		"CancelledAt":   &now,
	}, restockRepairItems)
}

func ChangeRepairStatus(ctx context.Context, storeId string, id int, targetStatus string, remark string) (*Repair, error) {
	repair, err := utils.FetchModel[Repair](ctx, storeId, id, "Details")
	if err != nil {
		return nil, err
	}
	status, err := ParseRepairStatus(targetStatus)
	if err != nil {
		return nil, err
	}
	if status == repair.CurrentStatus {
		return repair, nil
	}

	fromStatus := repair.CurrentStatus
	updates := statusDateUpdates(status, repairDateColumns, repairKeptDates, repairOwnDate, time.Now().UTC())

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(repair).Updates(updates).Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        "Change Status",
		FromStatus:    string(fromStatus),
		ToStatus:      string(status),
		Remark:        remark,
	})
	publishDocumentEvent(ctx, storeId, repair.documentType(), repair.ID, "Change Status")

	return utils.FetchModel[Repair](ctx, storeId, id, "Details")
}

func RestockRepairItem(ctx context.Context, storeId string, repairId int, itemId int) (*RepairItem, error) {
	release, err := utils.StoreLock(ctx, storeId, "stock", moduleNameRepair, "RestockRepairItem")
	if err != nil {
		return nil, err
	}
	defer release()

	repair, err := utils.FetchModel[Repair](ctx, storeId, repairId, "Details")
	if err != nil {
		return nil, err
	}
	switch repair.CurrentStatus {
	case RepairStatusCompleted, RepairStatusRejected, RepairStatusCancelled:
	default:
		return nil, &MissingPrerequisiteError{Reason: "repair items can only be restocked after completion, rejection or cancellation"}
	}

	var item *RepairItem
	for i := range repair.Details {
		if repair.Details[i].ID == itemId {
			item = &repair.Details[i]
			break
		}
	}
	if item == nil {
		return nil, utils.ErrorRecordNotFound
	}
	if utils.DereferencePtr(item.Restocked) {
		return nil, &AlreadyProcessedError{Subject: "repair item " + item.Description}
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	if err := restockSingleRepairItem(tx, storeId, item); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        "Restock Item",
		ToStatus:      string(repair.CurrentStatus),
	})

	return item, nil
}

func GetRepair(ctx context.Context, storeId string, id int) (*Repair, error) {
	return utils.FetchModel[Repair](ctx, storeId, id, "Details", "Vendor", "Customer")
}

func GetRepairs(ctx context.Context, storeId string) ([]*Repair, error) {
	return utils.FetchAllModels[Repair](ctx, storeId, "Details", "Vendor", "Customer")
}

func transitionRepair(ctx context.Context, storeId string, repair *Repair, target RepairStatus, action string,
	updates map[string]interface{}, sideEffect func(tx *gorm.DB, storeId string, r *Repair) error) (*Repair, error) {

	fromStatus := repair.CurrentStatus

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, err
	}

	// the status guard makes the move race-proof: if another transition won,
	// nothing matches and the whole move is abandoned
	result := tx.Model(repair).Where("current_status = ?", fromStatus).Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, newInvalidTransition(repair.documentType(), fromStatus, target)
	}
	if sideEffect != nil {
		if err := sideEffect(tx, storeId, repair); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	RecordActivity(ctx, storeId, ActivityLog{
		ReferenceId:   repair.ID,
		ReferenceType: repair.documentType(),
		Action:        action,
		FromStatus:    string(fromStatus),
		ToStatus:      string(target),
	})
	publishDocumentEvent(ctx, storeId, repair.documentType(), repair.ID, action)

	return utils.FetchModel[Repair](ctx, storeId, repair.ID, "Details")
}
