package handlers

import (
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameInventoryHandler = "inventoryHandler"

func CreateInventoryItem(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := models.CreateInventoryItem(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameInventoryHandler, "CreateInventoryItem", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func UpdateInventoryItem(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := models.UpdateInventoryItem(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameInventoryHandler, "UpdateInventoryItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetInventoryItem(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	item, err := models.GetInventoryItem(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameInventoryHandler, "GetInventoryItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetInventoryItems(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	items, err := models.GetInventoryItems(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameInventoryHandler, "GetInventoryItems", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func DeactivateInventoryItem(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeactivateInventoryItem(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameInventoryHandler, "DeactivateInventoryItem", err)
		return
	}
	c.Status(http.StatusNoContent)
}
