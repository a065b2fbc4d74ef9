package handlers

import (
	"context"
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameRepairHandler = "repairHandler"

func CreateRepair(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.RepairInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	repair, err := models.CreateRepair(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "CreateRepair", err)
		return
	}
	c.JSON(http.StatusCreated, repair)
}

func UpdateRepair(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.RepairInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	repair, err := models.UpdateRepair(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "UpdateRepair", err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func DeleteRepair(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeleteRepair(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameRepairHandler, "DeleteRepair", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetRepair(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	repair, err := models.GetRepair(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "GetRepair", err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func GetRepairs(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	repairs, err := models.GetRepairs(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "GetRepairs", err)
		return
	}
	c.JSON(http.StatusOK, repairs)
}

func GetRepairAvailableActions(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	repair, err := models.GetRepair(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "GetRepairAvailableActions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentStatus":    repair.CurrentStatus,
		"availableActions": models.RepairAvailableActions(repair.CurrentStatus),
	})
}

func SendRepairToVendor(c *gin.Context) {
	repairTransition(c, "SendRepairToVendor", models.SendRepairToVendor)
}

func MarkRepairReceived(c *gin.Context) {
	repairTransition(c, "MarkRepairReceived", models.MarkRepairReceived)
}

func CompleteRepair(c *gin.Context) {
	repairTransition(c, "CompleteRepair", models.CompleteRepair)
}

func RejectRepair(c *gin.Context) {
	repairTransition(c, "RejectRepair", models.RejectRepair)
}

func ArchiveRepair(c *gin.Context) {
	repairTransition(c, "ArchiveRepair", models.ArchiveRepair)
}

func CancelRepair(c *gin.Context) {
	repairTransition(c, "CancelRepair", models.CancelRepair)
}

func ReceiveRepairPayment(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	repair, err := models.ReceiveRepairPayment(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "ReceiveRepairPayment", err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func ChangeRepairStatus(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	repair, err := models.ChangeRepairStatus(c.Request.Context(), sid, id, req.Status, req.Remark)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "ChangeRepairStatus", err)
		return
	}
	c.JSON(http.StatusOK, repair)
}

func RestockRepairItem(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	itemId, ok := idParam(c, "itemId")
	if !ok {
		return
	}

	item, err := models.RestockRepairItem(c.Request.Context(), sid, id, itemId)
	if err != nil {
		respondError(c, moduleNameRepairHandler, "RestockRepairItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func repairTransition(c *gin.Context, functionName string,
	op func(ctx context.Context, storeId string, id int) (*models.Repair, error)) {

	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	repair, err := op(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameRepairHandler, functionName, err)
		return
	}
	c.JSON(http.StatusOK, repair)
}
