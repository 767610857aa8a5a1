package domain

import "time"

// AvailableSlot represents a candidate interval for one staff member
// Computed fresh on each tick, never persisted
type AvailableSlot struct {
	StaffID int64
	StartAt time.Time // локальное время точки
	EndAt   time.Time // локальное время точки
}
