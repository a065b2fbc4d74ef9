package handlers

import (
	"net/http"
	"time"

	"github.com/aurifex/jewelry_backend/models/reports"
	"github.com/gin-gonic/gin"
)

const moduleNameReportHandler = "reportHandler"

// reportDateRange parses fromDate/toDate query params (2006-01-02). Defaults
// to the last 30 days when absent.
func reportDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	fromDate := now.AddDate(0, 0, -30)
	toDate := now

	if raw := c.Query("fromDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fromDate"})
			return time.Time{}, time.Time{}, false
		}
		fromDate = parsed
	}
	if raw := c.Query("toDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toDate"})
			return time.Time{}, time.Time{}, false
		}
		// inclusive end of day
		toDate = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	return fromDate, toDate, true
}

func GetDocumentRegisterReport(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	fromDate, toDate, ok := reportDateRange(c)
	if !ok {
		return
	}

	rows, err := reports.GetDocumentRegisterReport(c.Request.Context(), sid, fromDate, toDate)
	if err != nil {
		respondError(c, moduleNameReportHandler, "GetDocumentRegisterReport", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func ExportDocumentRegisterExcel(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	fromDate, toDate, ok := reportDateRange(c)
	if !ok {
		return
	}

	f, err := reports.ExportDocumentRegisterExcel(c.Request.Context(), sid, fromDate, toDate)
	if err != nil {
		respondError(c, moduleNameReportHandler, "ExportDocumentRegisterExcel", err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=document-register.xlsx")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, moduleNameReportHandler, "ExportDocumentRegisterExcel", err)
	}
}
