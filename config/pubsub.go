package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// DocumentEvent is the message published on document lifecycle transitions.
// Consumers (storefront notifications, marketplace sync) subscribe downstream.
type DocumentEvent struct {
	StoreId       string    `json:"store_id"`
	ReferenceId   int       `json:"reference_id"`
	ReferenceType string    `json:"reference_type"`
	Action        string    `json:"action"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationId string    `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

func getPubSubProjectID() string {
	// Prefer explicit override.
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	// Common fallback.
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	if pubsubClient != nil {
		c := pubsubClient
		pubsubClientMu.Unlock()
		return c, nil
	}
	pubsubClientMu.Unlock()

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Uses Application Default Credentials (Cloud Run service account or GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}

	pubsubClientMu.Lock()
	if pubsubClient == nil {
		pubsubClient = c
	} else {
		// Another goroutine won the race; close ours.
		_ = c.Close()
	}
	c2 := pubsubClient
	pubsubClientMu.Unlock()

	log.Printf("pubsub client ready (project_id=%s)", projectID)
	return c2, nil
}

func getDocumentEventsTopic() string {
	if v := os.Getenv("DOCUMENT_EVENTS_TOPIC"); v != "" {
		return v
	}
	return "document-events"
}

// PublishDocumentEvent publishes a lifecycle event. Best-effort: callers run
// this AFTER the business transaction commits and only log failures.
func PublishDocumentEvent(ctx context.Context, event *DocumentEvent) error {
	if !DocumentEventsEnabled() {
		return nil
	}

	client, err := getPubSubClient(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := client.Topic(getDocumentEventsTopic())
	defer topic.Stop()

	pubCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result := topic.Publish(pubCtx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"store_id":       event.StoreId,
			"reference_type": event.ReferenceType,
			"action":         event.Action,
		},
	})
	_, err = result.Get(pubCtx)
	return err
}
