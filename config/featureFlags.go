package config

import (
	"os"
	"strings"
)

// DocumentEventsEnabled controls whether document lifecycle events
// (document.sent, document.cancelled, ...) are published to Pub/Sub.
//
// Set via env:
// - DOCUMENT_EVENTS_ENABLED=true
func DocumentEventsEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DOCUMENT_EVENTS_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
