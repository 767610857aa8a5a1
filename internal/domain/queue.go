package domain

import "time"

// QueueEntryStatus represents the status of a virtual queue entry
type QueueEntryStatus string

const (
	EntryStatusWaiting   QueueEntryStatus = "waiting"
	EntryStatusNotified  QueueEntryStatus = "notified"
	EntryStatusConfirmed QueueEntryStatus = "confirmed"
	EntryStatusExpired   QueueEntryStatus = "expired"
	EntryStatusCancelled QueueEntryStatus = "cancelled"
)

// QueueEntry represents a customer waiting in the walk-in virtual line
type QueueEntry struct {
	ID               int64
	ShopID           int64
	ClientName       string
	ClientPhone      string
	ServiceID        int64
	PreferredStaffID *int64 // NULL = любой мастер
	TravelMinutes    int    // время в пути со слов клиента
	Status           QueueEntryStatus
	PriorityScore    *float64 // NULL до первого расчёта

	// Заполняются при создании предварительной брони
	ReservedStaffID       *int64
	ReservedStart         *time.Time // UTC
	ReservedEnd           *time.Time // UTC
	NotificationSentAt    *time.Time // NULL пока сообщение не отправлено
	NotificationExpiresAt *time.Time // дедлайн подтверждения

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the entry is in a terminal state
func (e *QueueEntry) IsTerminal() bool {
	return e.Status == EntryStatusConfirmed ||
		e.Status == EntryStatusExpired ||
		e.Status == EntryStatusCancelled
}

// IsAllocatable returns true if the entry is eligible for slot allocation
func (e *QueueEntry) IsAllocatable() bool {
	return e.Status == EntryStatusWaiting
}

// IsSweepable returns true if the entry is eligible for expiry sweeping
func (e *QueueEntry) IsSweepable(now time.Time) bool {
	return e.Status == EntryStatusNotified &&
		e.NotificationExpiresAt != nil &&
		e.NotificationExpiresAt.Before(now)
}

// WaitMinutes returns elapsed wait time in whole minutes since creation
func (e *QueueEntry) WaitMinutes(now time.Time) int {
	if now.Before(e.CreatedAt) {
		return 0
	}
	return int(now.Sub(e.CreatedAt).Minutes())
}

// QueueSettings per-shop configuration of the virtual queue engine
type QueueSettings struct {
	ShopID         int64
	Enabled        bool
	EtaWeight      float64 // вес времени в пути
	PositionWeight float64 // вес позиции в очереди
	WaitTimeBonus  float64 // бонус за время ожидания
	BufferPercent  float64 // процент сокращения длительности услуги

	// Фиксированное смещение локального времени точки относительно UTC
	// (без учёта переходов на летнее время)
	UTCOffsetMinutes int

	// Учётные данные точки в мессенджер-шлюзе
	MessengerInstance string
	MessengerToken    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMessenger returns true if the shop has messenger credentials configured
func (s *QueueSettings) HasMessenger() bool {
	return s.MessengerInstance != "" && s.MessengerToken != ""
}
