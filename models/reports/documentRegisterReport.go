package reports

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/shopspring/decimal"
)

type DocumentRegisterRow struct {
	DocumentType  string          `json:"documentType"`
	CurrentStatus string          `json:"currentStatus"`
	DocumentCount int64           `json:"documentCount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
}

// GetDocumentRegisterReport summarizes every document type by status: how
// many documents sit in each status and what money is attached to them.
// The date window filters on the document's own business date.
func GetDocumentRegisterReport(ctx context.Context, storeId string, fromDate time.Time, toDate time.Time) ([]*DocumentRegisterRow, error) {
	sql := `
SELECT
    'Memo' AS document_type,
    current_status,
    COUNT(id) AS document_count,
    COALESCE(SUM(total_amount), 0) AS total_amount,
    COALESCE(SUM(balance_amount), 0) AS balance_amount
FROM memos
WHERE store_id = @storeId AND memo_date BETWEEN @fromDate AND @toDate
GROUP BY current_status
UNION ALL
SELECT
    CASE WHEN is_appraisal = 1 THEN 'Appraisal' ELSE 'Repair' END AS document_type,
    current_status,
    COUNT(id) AS document_count,
    COALESCE(SUM(total_amount), 0) AS total_amount,
    COALESCE(SUM(balance_amount), 0) AS balance_amount
FROM repairs
WHERE store_id = @storeId AND repair_date BETWEEN @fromDate AND @toDate
GROUP BY document_type, current_status
UNION ALL
SELECT
    'Return' AS document_type,
    current_status,
    COUNT(id) AS document_count,
    COALESCE(SUM(total_amount), 0) AS total_amount,
    COALESCE(SUM(total_amount - refunded_amount), 0) AS balance_amount
FROM returns
WHERE store_id = @storeId AND return_date BETWEEN @fromDate AND @toDate
GROUP BY current_status
ORDER BY document_type, current_status;
`

	var rows []*DocumentRegisterRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"storeId":  storeId,
		"fromDate": fromDate,
		"toDate":   toDate,
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
