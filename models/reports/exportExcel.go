package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportDocumentRegisterExcel renders the document register as a spreadsheet.
// The caller owns the returned file and is responsible for closing it.
func ExportDocumentRegisterExcel(ctx context.Context, storeId string, fromDate time.Time, toDate time.Time) (*excelize.File, error) {
	data, err := GetDocumentRegisterReport(ctx, storeId, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet("Sheet1"); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "DocumentType")
	f.SetCellValue("Sheet1", "B1", "Status")
	f.SetCellValue("Sheet1", "C1", "Count")
	f.SetCellValue("Sheet1", "D1", "TotalAmount")
	f.SetCellValue("Sheet1", "E1", "BalanceAmount")

	// Add data
	for i, d := range data {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(i+2), d.DocumentType)
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(i+2), d.CurrentStatus)
		f.SetCellValue("Sheet1", "C"+fmt.Sprint(i+2), d.DocumentCount)
		f.SetCellValue("Sheet1", "D"+fmt.Sprint(i+2), d.TotalAmount.InexactFloat64())
		f.SetCellValue("Sheet1", "E"+fmt.Sprint(i+2), d.BalanceAmount.InexactFloat64())
	}

	return f, nil
}
