package handlers

import (
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameInvoiceHandler = "invoiceHandler"

func GetInvoice(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	invoice, err := models.GetInvoice(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameInvoiceHandler, "GetInvoice", err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func GetInvoices(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	invoices, err := models.GetInvoices(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameInvoiceHandler, "GetInvoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func GetRefunds(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	refunds, err := models.GetRefunds(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameInvoiceHandler, "GetRefunds", err)
		return
	}
	c.JSON(http.StatusOK, refunds)
}
