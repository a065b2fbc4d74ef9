package handlers

import (
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameActivityHandler = "activityHandler"

var documentTypeByPath = map[string]models.DocumentType{
	"memos":      models.DocumentTypeMemo,
	"repairs":    models.DocumentTypeRepair,
	"appraisals": models.DocumentTypeAppraisal,
	"returns":    models.DocumentTypeReturn,
}

// GetActivityLogs lists the audit trail of one document, oldest first.
func GetActivityLogs(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	docType, ok := documentTypeByPath[c.Param("docType")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document type"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	logs, err := models.GetActivityLogs(c.Request.Context(), sid, docType, id)
	if err != nil {
		respondError(c, moduleNameActivityHandler, "GetActivityLogs", err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
