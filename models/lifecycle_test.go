package models

import (
	"errors"
	"testing"
	"time"
)

// every edge target must itself be a key in the table or a terminal status,
// so a document can never be walked into an unknown state
func TestTransitionTablesAreClosed(t *testing.T) {
	for from, targets := range memoTransitions {
		for _, to := range targets {
			if _, ok := memoTransitions[to]; !ok && !isTerminalStatus(memoTransitions, to) {
				t.Errorf("memo: %q -> %q leads outside the table", from, to)
			}
		}
	}
	for from, targets := range repairTransitions {
		for _, to := range targets {
			if _, ok := repairTransitions[to]; !ok && !isTerminalStatus(repairTransitions, to) {
				t.Errorf("repair: %q -> %q leads outside the table", from, to)
			}
		}
	}
	for from, targets := range returnTransitions {
		for _, to := range targets {
			if _, ok := returnTransitions[to]; !ok && !isTerminalStatus(returnTransitions, to) {
				t.Errorf("return: %q -> %q leads outside the table", from, to)
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from MemoStatus
		to   MemoStatus
		want bool
	}{
		{"pending to sent", MemoStatusPending, MemoStatusSentToVendor, true},
		{"pending to cancelled", MemoStatusPending, MemoStatusCancelled, true},
		{"pending skips to received", MemoStatusPending, MemoStatusVendorReceived, false},
		{"received to returned", MemoStatusVendorReceived, MemoStatusVendorReturned, true},
		{"received to payment", MemoStatusVendorReceived, MemoStatusPaymentReceived, true},
		{"returned back to pending", MemoStatusVendorReturned, MemoStatusPending, false},
		{"archived is terminal", MemoStatusArchived, MemoStatusPending, false},
		{"cancelled is terminal", MemoStatusCancelled, MemoStatusArchived, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canTransition(memoTransitions, tc.from, tc.to); got != tc.want {
				t.Errorf("canTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !isTerminalStatus(memoTransitions, MemoStatusArchived) {
		t.Error("memo Archived should be terminal")
	}
	if !isTerminalStatus(memoTransitions, MemoStatusCancelled) {
		t.Error("memo Cancelled should be terminal")
	}
	if isTerminalStatus(memoTransitions, MemoStatusVendorReceived) {
		t.Error("memo Vendor Received should not be terminal")
	}
	if !isTerminalStatus(returnTransitions, ReturnStatusArchived) {
		t.Error("return Archived should be terminal")
	}
	if isTerminalStatus(repairTransitions, RepairStatusRejected) {
		t.Error("repair Rejected should not be terminal, it can archive")
	}
}

func TestAvailableActionsMatchTable(t *testing.T) {
	actions := MemoAvailableActions(MemoStatusVendorReceived)
	want := map[MemoStatus]bool{
		MemoStatusVendorReturned:  true,
		MemoStatusPaymentReceived: true,
		MemoStatusCancelled:       true,
	}
	if len(actions) != len(want) {
		t.Fatalf("expected %d actions, got %v", len(want), actions)
	}
	for _, a := range actions {
		if !want[a] {
			t.Errorf("unexpected action %q", a)
		}
	}

	if got := len(MemoAvailableActions(MemoStatusArchived)); got != 0 {
		t.Errorf("archived memo should offer no actions, got %d", got)
	}

	// returned slice must not alias the table
	actions[0] = MemoStatus("Bogus")
	for _, a := range MemoAvailableActions(MemoStatusVendorReceived) {
		if a == "Bogus" {
			t.Fatal("AvailableActions leaked a mutable reference to the transition table")
		}
	}
}

func TestStatusDateUpdates(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	updates := statusDateUpdates(MemoStatusSentToVendor, memoDateColumns, memoKeptDates, memoOwnDate, now)

	if updates["CurrentStatus"] != MemoStatusSentToVendor {
		t.Errorf("CurrentStatus = %v", updates["CurrentStatus"])
	}
	if ts, ok := updates["SentAt"].(*time.Time); !ok || !ts.Equal(now) {
		t.Errorf("SentAt should be stamped with now, got %v", updates["SentAt"])
	}
	for _, col := range []string{"ReceivedAt", "ReturnedAt", "PaymentReceivedAt", "CancelledAt"} {
		if v, present := updates[col]; !present || v != nil {
			t.Errorf("%s should be cleared to nil, got %v (present=%v)", col, v, present)
		}
	}

	// moving back to Pending clears everything
	updates = statusDateUpdates(MemoStatusPending, memoDateColumns, memoKeptDates, memoOwnDate, now)
	for _, col := range memoDateColumns {
		if v := updates[col]; v != nil {
			t.Errorf("Pending should clear %s, got %v", col, v)
		}
	}

	// Archived keeps every stamp and owns none
	updates = statusDateUpdates(MemoStatusArchived, memoDateColumns, memoKeptDates, memoOwnDate, now)
	for _, col := range memoDateColumns {
		if _, present := updates[col]; present {
			t.Errorf("Archived should not touch %s", col)
		}
	}
}

func TestParseStatuses(t *testing.T) {
	if s, err := ParseMemoStatus("Sent To Vendor"); err != nil || s != MemoStatusSentToVendor {
		t.Errorf("ParseMemoStatus: %v %v", s, err)
	}
	if _, err := ParseMemoStatus("Completed"); err == nil {
		t.Error("Completed is not a memo status, want error")
	}
	if s, err := ParseRepairStatus("Completed"); err != nil || s != RepairStatusCompleted {
		t.Errorf("ParseRepairStatus: %v %v", s, err)
	}
	if _, err := ParseReturnStatus("Vendor Received"); err == nil {
		t.Error("Vendor Received is not a return status, want error")
	}

	var invalid *InvalidValueError
	_, err := ParseMemoStatus("nonsense")
	if !errors.As(err, &invalid) {
		t.Errorf("parse error should be *InvalidValueError, got %T", err)
	}
}

func TestLifecycleErrorMessages(t *testing.T) {
	err := newInvalidTransition(DocumentTypeMemo, MemoStatusPending, MemoStatusArchived)
	var invalidTransition *InvalidTransitionError
	if !errors.As(err, &invalidTransition) {
		t.Fatalf("got %T", err)
	}
	if invalidTransition.Current != "Pending" || invalidTransition.Target != "Archived" {
		t.Errorf("unexpected fields: %+v", invalidTransition)
	}

	already := &AlreadyProcessedError{Subject: "memo item ring"}
	if already.Error() != "memo item ring has already been processed" {
		t.Errorf("unexpected message: %s", already.Error())
	}
}
