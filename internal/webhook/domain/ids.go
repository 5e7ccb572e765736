package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateEventID mints a fresh event id. Every delivery attempt, retries
// included, gets its own.
func GenerateEventID() string {
	return "evt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IdempotentEventID derives the subscriber-facing deduplication id for a
// delivery attempt. It is deterministic: it ignores the event id and the
// retry count, so every automatic retry of one logical occurrence carries the
// same id, while attempts of different kinds carry different ids.
func IdempotentEventID(primaryObjectID string, eventType EventType, attempt DeliveryAttempt) string {
	base := LegacyEventID(primaryObjectID, eventType)
	switch attempt {
	case DeliveryAttemptAutomaticRetry:
		return base + "_automatic_retry"
	case DeliveryAttemptManualRetry:
		return base + "_manual_retry"
	default:
		return base
	}
}

// LegacyEventID is the composite id format events were stored under before
// chained attempt ids existed. Jobs without an initial attempt id resolve
// their triggering event by this key.
func LegacyEventID(primaryObjectID string, eventType EventType) string {
	return fmt.Sprintf("%s_%s", primaryObjectID, eventType)
}
