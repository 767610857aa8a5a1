package domain

// Default queue engine tuning values
const (
	DefaultGridMinutes               = 10  // сетка начала слотов
	DefaultSafetyMarginMinutes       = 10  // запас к времени в пути клиента
	DefaultHorizonHours              = 4   // горизонт поиска слота
	DefaultConfirmationWindowMinutes = 5   // окно подтверждения брони
	DefaultNotifyMinLeadMinutes      = 10  // нижняя граница окна уведомления
	DefaultNotifyMaxLeadMinutes      = 120 // верхняя граница окна уведомления
)

// Default scoring weights
const (
	DefaultEtaWeight      = 1.0
	DefaultPositionWeight = 1.0
	DefaultWaitTimeBonus  = 0.5
)

// WaitMinutesCap cap on elapsed wait time used by the priority score
const WaitMinutesCap = 60

// TimeFormat wall-clock format used in logs and client messages
const TimeFormat = "15:04"

// InactiveStatuses список статусов, не занимающих временной интервал
// Используется для фильтрации при поиске свободных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByCompany,
	StatusNoShow,
}

// AuditEventType тип события аудита движка очереди
type AuditEventType string

const (
	AuditSlotReserved        AuditEventType = "slot_reserved"
	AuditNotificationSent    AuditEventType = "notification_sent"
	AuditNotificationExpired AuditEventType = "notification_expired"
)
