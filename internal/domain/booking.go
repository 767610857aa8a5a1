package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending            BookingStatus = "pending"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusInProgress         BookingStatus = "in_progress"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByCompany BookingStatus = "cancelled_by_company"
	StatusNoShow             BookingStatus = "no_show"

	// StatusQueueReserved предварительная бронь, созданная движком виртуальной
	// очереди; ждёт подтверждения клиента в пределах окна
	StatusQueueReserved BookingStatus = "queue_reserved"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Booking represents a booking row in the shared store
// The queue engine creates bookings with StatusQueueReserved and deletes them
// on expiry; all other statuses belong to the external booking CRUD
type Booking struct {
	ID        int64
	ShopID    int64
	StaffID   int64
	ServiceID int64

	// Back-reference to the queue entry that produced this provisional booking
	// NULL for ordinary bookings created by the external CRUD
	QueueEntryID *int64

	StartAt time.Time // UTC
	EndAt   time.Time // UTC

	Status        BookingStatus
	PaymentStatus PaymentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	ClientName   *string
	ClientPhone  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time interval
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledByCompany &&
		b.Status != StatusNoShow
}

// IsProvisional returns true if the booking is a queue-held reservation
func (b *Booking) IsProvisional() bool {
	return b.Status == StatusQueueReserved
}

// Overlaps returns true if the booking interval really intersects [start, end)
// Touching boundaries do not count as an overlap
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}
