// Package analytics is the fire-and-forget event sink. Recording an event
// never blocks the caller and never surfaces a failure; a sink that cannot
// deliver logs and drops.
package analytics

import "log"

// Sink receives product events. Implementations must swallow their own
// failures: no error returns, no panics across Record.
type Sink interface {
	// Record dispatches one event. userID may be empty for anonymous
	// actors (share-link viewers).
	Record(event string, userID string, props map[string]any)
}

// Events emitted by the core.
const (
	EventItemSaved        = "item_saved"
	EventTripCreated      = "trip_created"
	EventTripScheduled    = "trip_scheduled"
	EventShareCreated     = "share_created"
	EventShareViewed      = "share_viewed"
	EventTripAdopted      = "trip_adopted"
	EventCompanionInvited = "companion_invited"
)

// LogSink writes events to the process log. The default sink.
type LogSink struct{}

// Record logs the event asynchronously.
func (LogSink) Record(event string, userID string, props map[string]any) {
	go func() {
		if userID == "" {
			userID = "anonymous"
		}
		log.Printf("analytics: %s user=%s props=%v", event, userID, props)
	}()
}

// NopSink discards every event. Used in tests.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(string, string, map[string]any) {}
