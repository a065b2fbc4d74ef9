package models

import "fmt"

// Document number prefixes. Numbers render as PREFIX-000042; the numeric part
// is the store-scoped sequence number.
const (
	memoNumberPrefix      = "MEMO"
	repairNumberPrefix    = "RPR"
	appraisalNumberPrefix = "APR"
	returnNumberPrefix    = "RTN"
)

func formatDocumentNumber(prefix string, sequenceNo int64) string {
	return fmt.Sprintf("%s-%06d", prefix, sequenceNo)
}
