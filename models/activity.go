package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
)

// ActivityLog is the append-only audit trail of document actions. One row per
// lifecycle action, recorded after the action's transaction commits.
type ActivityLog struct {
	ID            int          `gorm:"primaryKey" json:"id"`
	StoreId       string       `gorm:"size:100;index:idx_activity_store;not null" json:"storeId"`
	ReferenceId   int          `gorm:"index:idx_activity_reference" json:"referenceId"`
	ReferenceType DocumentType `gorm:"size:50;index:idx_activity_reference" json:"referenceType"`
	Action        string       `gorm:"size:100" json:"action"`
	FromStatus    string       `gorm:"size:50" json:"fromStatus"`
	ToStatus      string       `gorm:"size:50" json:"toStatus"`
	Remark        string       `gorm:"size:1000" json:"remark"`
	UserId        int          `json:"userId"`
	UserName      string       `gorm:"size:255" json:"userName"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// RecordActivity appends an audit row outside the caller's transaction.
// Audit failures are logged and swallowed: a committed business action is
// never rolled back over a missing log line.
func RecordActivity(ctx context.Context, storeId string, log ActivityLog) {
	log.StoreId = storeId
	if userId, ok := utils.GetUserIdFromContext(ctx); ok {
		log.UserId = userId
	}
	if userName, ok := utils.GetUserNameFromContext(ctx); ok {
		log.UserName = userName
	}

	db := config.GetDB()
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&log).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "RecordActivity", string(log.ReferenceType), log, err)
	}
}

func GetActivityLogs(ctx context.Context, storeId string, referenceType DocumentType, referenceId int) ([]ActivityLog, error) {
	var logs []ActivityLog

	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("store_id = ? AND reference_type = ? AND reference_id = ?", storeId, referenceType, referenceId).
		Order("created_at, id").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
