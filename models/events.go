package models

import (
	"context"
	"time"

	"github.com/aurifex/jewelry_backend/config"
	"github.com/aurifex/jewelry_backend/utils"
)

// publishDocumentEvent emits a document action to Pub/Sub after commit.
// Best effort behind a feature flag; delivery failures are logged, never
// surfaced to the caller.
func publishDocumentEvent(ctx context.Context, storeId string, referenceType DocumentType, referenceId int, action string) {
	if !config.DocumentEventsEnabled() {
		return
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	event := &config.DocumentEvent{
		StoreId:       storeId,
		ReferenceId:   referenceId,
		ReferenceType: string(referenceType),
		Action:        action,
		OccurredAt:    time.Now().UTC(),
		CorrelationId: correlationId,
	}

	go func(ctx context.Context) {
		if err := config.PublishDocumentEvent(ctx, event); err != nil {
			config.LogError(config.GetLogger(), "models", "publishDocumentEvent", event.ReferenceType, event, err)
		}
	}(context.WithoutCancel(ctx))
}
