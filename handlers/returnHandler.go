package handlers

import (
	"context"
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameReturnHandler = "returnHandler"

func CreateReturn(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.ReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ret, err := models.CreateReturn(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "CreateReturn", err)
		return
	}
	c.JSON(http.StatusCreated, ret)
}

func UpdateReturn(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.ReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ret, err := models.UpdateReturn(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "UpdateReturn", err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func DeleteReturn(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeleteReturn(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameReturnHandler, "DeleteReturn", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetReturn(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ret, err := models.GetReturn(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "GetReturn", err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func GetReturns(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	rets, err := models.GetReturns(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "GetReturns", err)
		return
	}
	c.JSON(http.StatusOK, rets)
}

func GetReturnAvailableActions(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ret, err := models.GetReturn(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "GetReturnAvailableActions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentStatus":    ret.CurrentStatus,
		"availableActions": models.ReturnAvailableActions(ret.CurrentStatus),
	})
}

func ReceiveReturnItems(c *gin.Context) {
	returnTransition(c, "ReceiveReturnItems", models.ReceiveReturnItems)
}

func RejectReturn(c *gin.Context) {
	returnTransition(c, "RejectReturn", models.RejectReturn)
}

func ArchiveReturn(c *gin.Context) {
	returnTransition(c, "ArchiveReturn", models.ArchiveReturn)
}

func CancelReturn(c *gin.Context) {
	returnTransition(c, "CancelReturn", models.CancelReturn)
}

func RefundReturn(c *gin.Context) {
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

	ret, err := models.RefundReturn(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "RefundReturn", err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func ChangeReturnStatus(c *gin.Context) {
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

	ret, err := models.ChangeReturnStatus(c.Request.Context(), sid, id, req.Status, req.Remark)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "ChangeReturnStatus", err)
		return
	}
	c.JSON(http.StatusOK, ret)
}

func RestockReturnItem(c *gin.Context) {
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

	item, err := models.RestockReturnItem(c.Request.Context(), sid, id, itemId)
	if err != nil {
		respondError(c, moduleNameReturnHandler, "RestockReturnItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func returnTransition(c *gin.Context, functionName string,
	op func(ctx context.Context, storeId string, id int) (*models.Return, error)) {

	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ret, err := op(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameReturnHandler, functionName, err)
		return
	}
	c.JSON(http.StatusOK, ret)
}
