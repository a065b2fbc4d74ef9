package models

import "fmt"

// InvalidValueError reports an input string that does not match any value of
// an enumerated type.
type InvalidValueError struct {
	Value string
	Kind  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s is not a valid %s", e.Value, e.Kind)
}

type DocumentType string

const (
	DocumentTypeMemo      DocumentType = "Memo"
	DocumentTypeRepair    DocumentType = "Repair"
	DocumentTypeAppraisal DocumentType = "Appraisal"
	DocumentTypeReturn    DocumentType = "Return"
)

type MemoStatus string

const (
	MemoStatusPending         MemoStatus = "Pending"
	MemoStatusSentToVendor    MemoStatus = "Sent To Vendor"
	MemoStatusVendorReceived  MemoStatus = "Vendor Received"
	MemoStatusVendorReturned  MemoStatus = "Vendor Returned"
	MemoStatusPaymentReceived MemoStatus = "Payment Received"
	MemoStatusArchived        MemoStatus = "Archived"
	MemoStatusCancelled       MemoStatus = "Cancelled"
)

func ParseMemoStatus(str string) (MemoStatus, error) {
	memoStatus := map[string]MemoStatus{
		"Pending":          MemoStatusPending,
		"Sent To Vendor":   MemoStatusSentToVendor,
		"Vendor Received":  MemoStatusVendorReceived,
		"Vendor Returned":  MemoStatusVendorReturned,
		"Payment Received": MemoStatusPaymentReceived,
		"Archived":         MemoStatusArchived,
		"Cancelled":        MemoStatusCancelled,
	}
	s, ok := memoStatus[str]
	if !ok {
		return "", &InvalidValueError{Value: str, Kind: "memo status"}
	}
	return s, nil
}

type RepairStatus string

const (
	RepairStatusPending         RepairStatus = "Pending"
	RepairStatusSentToVendor    RepairStatus = "Sent To Vendor"
	RepairStatusVendorReceived  RepairStatus = "Vendor Received"
	RepairStatusCompleted       RepairStatus = "Completed"
	RepairStatusPaymentReceived RepairStatus = "Payment Received"
	RepairStatusRejected        RepairStatus = "Rejected"
	RepairStatusArchived        RepairStatus = "Archived"
	RepairStatusCancelled       RepairStatus = "Cancelled"
)

func ParseRepairStatus(str string) (RepairStatus, error) {
	repairStatus := map[string]RepairStatus{
		"Pending":          RepairStatusPending,
		"Sent To Vendor":   RepairStatusSentToVendor,
		"Vendor Received":  RepairStatusVendorReceived,
		"Completed":        RepairStatusCompleted,
		"Payment Received": RepairStatusPaymentReceived,
		"Rejected":         RepairStatusRejected,
		"Archived":         RepairStatusArchived,
		"Cancelled":        RepairStatusCancelled,
	}
	s, ok := repairStatus[str]
	if !ok {
		return "", &InvalidValueError{Value: str, Kind: "repair status"}
	}
	return s, nil
}

type ReturnStatus string

const (
	ReturnStatusPending       ReturnStatus = "Pending"
	ReturnStatusItemsReceived ReturnStatus = "Items Received"
	ReturnStatusRefunded      ReturnStatus = "Refunded"
	ReturnStatusRejected      ReturnStatus = "Rejected"
	ReturnStatusArchived      ReturnStatus = "Archived"
	ReturnStatusCancelled     ReturnStatus = "Cancelled"
)

func ParseReturnStatus(str string) (ReturnStatus, error) {
	returnStatus := map[string]ReturnStatus{
		"Pending":        ReturnStatusPending,
		"Items Received": ReturnStatusItemsReceived,
		"Refunded":       ReturnStatusRefunded,
		"Rejected":       ReturnStatusRejected,
		"Archived":       ReturnStatusArchived,
		"Cancelled":      ReturnStatusCancelled,
	}
	s, ok := returnStatus[str]
	if !ok {
		return "", &InvalidValueError{Value: str, Kind: "return status"}
	}
	return s, nil
}

// DiscountType covers both discounts and service fees:
// "P" values are percent points against the subtotal, "A" values are flat amounts.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "P"
	DiscountTypeAmount  DiscountType = "A"
)

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "Cash"
	PaymentMethodCard  PaymentMethod = "Card"
	PaymentMethodCheck PaymentMethod = "Check"
	PaymentMethodWire  PaymentMethod = "Wire"
	PaymentMethodStore PaymentMethod = "Store Credit"
)

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	paymentMethod := map[string]PaymentMethod{
		"Cash":         PaymentMethodCash,
		"Card":         PaymentMethodCard,
		"Check":        PaymentMethodCheck,
		"Wire":         PaymentMethodWire,
		"Store Credit": PaymentMethodStore,
	}
	m, ok := paymentMethod[str]
	if !ok {
		return "", &InvalidValueError{Value: str, Kind: "payment method"}
	}
	return m, nil
}
