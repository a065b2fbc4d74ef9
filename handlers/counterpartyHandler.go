package handlers

import (
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameCounterpartyHandler = "counterpartyHandler"

func CreateVendor(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	vendor, err := models.CreateVendor(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "CreateVendor", err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func UpdateVendor(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.VendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	vendor, err := models.UpdateVendor(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "UpdateVendor", err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func GetVendor(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	vendor, err := models.GetVendor(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "GetVendor", err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func GetVendors(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	vendors, err := models.GetVendors(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "GetVendors", err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func DeactivateVendor(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeactivateVendor(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameCounterpartyHandler, "DeactivateVendor", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func CreateCustomer(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := models.CreateCustomer(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "CreateCustomer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func UpdateCustomer(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := models.UpdateCustomer(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "UpdateCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func GetCustomer(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	customer, err := models.GetCustomer(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "GetCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func GetCustomers(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	customers, err := models.GetCustomers(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameCounterpartyHandler, "GetCustomers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func DeactivateCustomer(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeactivateCustomer(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameCounterpartyHandler, "DeactivateCustomer", err)
		return
	}
	c.Status(http.StatusNoContent)
}
