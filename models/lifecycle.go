package models

import (
	"fmt"
	"strings"
	"time"
)

// Transition tables. One table per document kind, defined once; the named
// transition operations and the available-actions queries both consult the
// same table. A status with no outgoing edges is terminal. Administrative
// status corrections bypass the table on purpose.

var memoTransitions = map[MemoStatus][]MemoStatus{
	MemoStatusPending:         {MemoStatusSentToVendor, MemoStatusCancelled},
	MemoStatusSentToVendor:    {MemoStatusVendorReceived, MemoStatusCancelled},
	MemoStatusVendorReceived:  {MemoStatusVendorReturned, MemoStatusPaymentReceived, MemoStatusCancelled},
	MemoStatusVendorReturned:  {MemoStatusArchived},
	MemoStatusPaymentReceived: {MemoStatusArchived},
}

var repairTransitions = map[RepairStatus][]RepairStatus{
	RepairStatusPending:         {RepairStatusSentToVendor, RepairStatusCancelled},
	RepairStatusSentToVendor:    {RepairStatusVendorReceived, RepairStatusCancelled},
	RepairStatusVendorReceived:  {RepairStatusCompleted, RepairStatusRejected, RepairStatusCancelled},
	RepairStatusCompleted:       {RepairStatusPaymentReceived, RepairStatusCancelled},
	RepairStatusPaymentReceived: {RepairStatusArchived},
	RepairStatusRejected:        {RepairStatusArchived},
}

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusPending:       {ReturnStatusItemsReceived, ReturnStatusRejected, ReturnStatusCancelled},
	ReturnStatusItemsReceived: {ReturnStatusRefunded, ReturnStatusRejected, ReturnStatusCancelled},
	ReturnStatusRefunded:      {ReturnStatusArchived},
	ReturnStatusRejected:      {ReturnStatusArchived},
}

func canTransition[S ~string](table map[S][]S, from S, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func nextStatuses[S ~string](table map[S][]S, from S) []S {
	// copy so callers can't mutate the table
	out := make([]S, len(table[from]))
	copy(out, table[from])
	return out
}

func isTerminalStatus[S ~string](table map[S][]S, s S) bool {
	return len(table[s]) == 0
}

// MemoAvailableActions lists the statuses a memo can legally move to next.
// UI action buttons are driven off this, so they can never drift from what
// the transition operations accept.
func MemoAvailableActions(status MemoStatus) []MemoStatus {
	return nextStatuses(memoTransitions, status)
}

func RepairAvailableActions(status RepairStatus) []RepairStatus {
	return nextStatuses(repairTransitions, status)
}

func ReturnAvailableActions(status ReturnStatus) []ReturnStatus {
	return nextStatuses(returnTransitions, status)
}

/* lifecycle errors */

// InvalidTransitionError reports a transition attempt outside the document
// type's edge set. The document is left untouched.
type InvalidTransitionError struct {
	DocType DocumentType
	Current string
	Target  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", strings.ToLower(string(e.DocType)), e.Current, e.Target)
}

func newInvalidTransition[S ~string](docType DocumentType, current S, target S) error {
	return &InvalidTransitionError{DocType: docType, Current: string(current), Target: string(target)}
}

// MissingPrerequisiteError reports a transition whose status edge is legal
// but whose preconditions (counterparty assigned, items present, ...) are not met.
type MissingPrerequisiteError struct {
	Reason string
}

func (e *MissingPrerequisiteError) Error() string {
	return e.Reason
}

// AlreadyProcessedError reports an explicit request to redo a one-shot side
// effect, e.g. restocking a line item that is already back in stock.
type AlreadyProcessedError struct {
	Subject string
}

func (e *AlreadyProcessedError) Error() string {
	return e.Subject + " has already been processed"
}

/* timestamp policy */

// Each status owns at most one timestamp column and implies which earlier
// ones remain meaningful. Administrative status corrections apply this
// table: stamps outside the kept set are cleared, the status's own stamp is
// set when missing. The named transition operations only ever stamp forward.

var memoKeptDates = map[MemoStatus][]string{
	MemoStatusPending:         {},
	MemoStatusSentToVendor:    {"SentAt"},
	MemoStatusVendorReceived:  {"SentAt", "ReceivedAt"},
	MemoStatusVendorReturned:  {"SentAt", "ReceivedAt", "ReturnedAt"},
	MemoStatusPaymentReceived: {"SentAt", "ReceivedAt", "PaymentReceivedAt"},
	MemoStatusArchived:        {"SentAt", "ReceivedAt", "ReturnedAt", "PaymentReceivedAt", "CancelledAt"},
	MemoStatusCancelled:       {"SentAt", "ReceivedAt", "ReturnedAt", "CancelledAt"},
}

var memoOwnDate = map[MemoStatus]string{
	MemoStatusSentToVendor:    "SentAt",
	MemoStatusVendorReceived:  "ReceivedAt",
	MemoStatusVendorReturned:  "ReturnedAt",
	MemoStatusPaymentReceived: "PaymentReceivedAt",
	MemoStatusCancelled:       "CancelledAt",
}

var memoDateColumns = []string{"SentAt", "ReceivedAt", "ReturnedAt", "PaymentReceivedAt", "CancelledAt"}

var repairKeptDates = map[RepairStatus][]string{
	RepairStatusPending:         {},
	RepairStatusSentToVendor:    {"SentAt"},
	RepairStatusVendorReceived:  {"SentAt", "ReceivedAt"},
	RepairStatusCompleted:       {"SentAt", "ReceivedAt", "CompletedAt"},
	RepairStatusPaymentReceived: {"SentAt", "ReceivedAt", "CompletedAt", "PaymentReceivedAt"},
	RepairStatusRejected:        {"SentAt", "ReceivedAt", "RejectedAt"},
	RepairStatusArchived:        {"SentAt", "ReceivedAt", "CompletedAt", "PaymentReceivedAt", "RejectedAt", "CancelledAt"},
	RepairStatusCancelled:       {"SentAt", "ReceivedAt", "CompletedAt", "CancelledAt"},
}

var repairOwnDate = map[RepairStatus]string{
	RepairStatusSentToVendor:    "SentAt",
	RepairStatusVendorReceived:  "ReceivedAt",
	RepairStatusCompleted:       "CompletedAt",
	RepairStatusPaymentReceived: "PaymentReceivedAt",
	RepairStatusRejected:        "RejectedAt",
	RepairStatusCancelled:       "CancelledAt",
}

var repairDateColumns = []string{"SentAt", "ReceivedAt", "CompletedAt", "PaymentReceivedAt", "RejectedAt", "CancelledAt"}

var returnKeptDates = map[ReturnStatus][]string{
	ReturnStatusPending:       {},
	ReturnStatusItemsReceived: {"ReceivedAt"},
	ReturnStatusRefunded:      {"ReceivedAt", "RefundedAt"},
	ReturnStatusRejected:      {"ReceivedAt", "RejectedAt"},
	ReturnStatusArchived:      {"ReceivedAt", "RefundedAt", "RejectedAt", "CancelledAt"},
	ReturnStatusCancelled:     {"ReceivedAt", "CancelledAt"},
}

var returnOwnDate = map[ReturnStatus]string{
	ReturnStatusItemsReceived: "ReceivedAt",
	ReturnStatusRefunded:      "RefundedAt",
	ReturnStatusRejected:      "RejectedAt",
	ReturnStatusCancelled:     "CancelledAt",
}

var returnDateColumns = []string{"ReceivedAt", "RefundedAt", "RejectedAt", "CancelledAt"}

// statusDateUpdates builds the Updates map for an administrative status
// correction: the new status, its own stamp (when it has one), and NULLs for
// every stamp the new status does not keep.
func statusDateUpdates[S comparable](status S, allColumns []string, kept map[S][]string, own map[S]string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"CurrentStatus": status,
	}
	keptSet := make(map[string]bool, len(kept[status]))
	for _, col := range kept[status] {
		keptSet[col] = true
	}
	for _, col := range allColumns {
		if !keptSet[col] {
			updates[col] = nil
		}
	}
	if col, ok := own[status]; ok {
		updates[col] = &now
	}
	return updates
}
