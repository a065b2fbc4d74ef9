package handlers

import (
	"context"
	"net/http"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/gin-gonic/gin"
)

const moduleNameMemoHandler = "memoHandler"

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Remark string `json:"remark"`
}

func CreateMemo(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	var input models.MemoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	memo, err := models.CreateMemo(c.Request.Context(), sid, input)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "CreateMemo", err)
		return
	}
	c.JSON(http.StatusCreated, memo)
}

func UpdateMemo(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input models.MemoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	memo, err := models.UpdateMemo(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "UpdateMemo", err)
		return
	}
	c.JSON(http.StatusOK, memo)
}

func DeleteMemo(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := models.DeleteMemo(c.Request.Context(), sid, id); err != nil {
		respondError(c, moduleNameMemoHandler, "DeleteMemo", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetMemo(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	memo, err := models.GetMemo(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "GetMemo", err)
		return
	}
	c.JSON(http.StatusOK, memo)
}

func GetMemos(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}

	memos, err := models.GetMemos(c.Request.Context(), sid)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "GetMemos", err)
		return
	}
	c.JSON(http.StatusOK, memos)
}

func GetMemoAvailableActions(c *gin.Context) {
	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	memo, err := models.GetMemo(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "GetMemoAvailableActions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currentStatus":    memo.CurrentStatus,
		"availableActions": models.MemoAvailableActions(memo.CurrentStatus),
	})
}

func SendMemoToVendor(c *gin.Context) {
	memoTransition(c, "SendMemoToVendor", models.SendMemoToVendor)
}

func MarkMemoReceived(c *gin.Context) {
	memoTransition(c, "MarkMemoReceived", models.MarkMemoReceived)
}

func MarkMemoReturned(c *gin.Context) {
	memoTransition(c, "MarkMemoReturned", models.MarkMemoReturned)
}

func ArchiveMemo(c *gin.Context) {
	memoTransition(c, "ArchiveMemo", models.ArchiveMemo)
}

func CancelMemo(c *gin.Context) {
	memoTransition(c, "CancelMemo", models.CancelMemo)
}

func ReceiveMemoPayment(c *gin.Context) {
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

	memo, err := models.ReceiveMemoPayment(c.Request.Context(), sid, id, input)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "ReceiveMemoPayment", err)
		return
	}
	c.JSON(http.StatusOK, memo)
}

func ChangeMemoStatus(c *gin.Context) {
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

	memo, err := models.ChangeMemoStatus(c.Request.Context(), sid, id, req.Status, req.Remark)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "ChangeMemoStatus", err)
		return
	}
	c.JSON(http.StatusOK, memo)
}

func RestockMemoItem(c *gin.Context) {
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

	item, err := models.RestockMemoItem(c.Request.Context(), sid, id, itemId)
	if err != nil {
		respondError(c, moduleNameMemoHandler, "RestockMemoItem", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func memoTransition(c *gin.Context, functionName string,
	op func(ctx context.Context, storeId string, id int) (*models.Memo, error)) {

	sid, ok := storeId(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	memo, err := op(c.Request.Context(), sid, id)
	if err != nil {
		respondError(c, moduleNameMemoHandler, functionName, err)
		return
	}
	c.JSON(http.StatusOK, memo)
}
