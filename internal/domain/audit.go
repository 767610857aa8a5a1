package domain

import "time"

// AuditEvent represents one row of the queue engine audit trail
type AuditEvent struct {
	ID           string // uuid
	ShopID       int64
	QueueEntryID *int64
	BookingID    *int64
	EventType    AuditEventType
	Details      string // JSON payload с деталями события
	CreatedAt    time.Time
}
