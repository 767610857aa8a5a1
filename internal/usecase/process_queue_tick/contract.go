package process_queue_tick

import (
	"context"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/service/notifications"
	"github.com/m04kA/BRB-QueueMonitor/internal/service/reservations"
)

// QueueEntryRepository интерфейс репозитория записей очереди
type QueueEntryRepository interface {
	// GetWaitingByShop возвращает записи в статусе waiting в порядке FIFO
	GetWaitingByShop(ctx context.Context, shopID int64) ([]*domain.QueueEntry, error)
	// GetUnnotifiedReserved возвращает записи с бронью, по которым сообщение
	// ещё не отправлялось (бронь была создана вне окна уведомления)
	GetUnnotifiedReserved(ctx context.Context, shopID int64) ([]*domain.QueueEntry, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByShopRange(ctx context.Context, shopID int64, from, to time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс репозитория справочников
type CatalogRepository interface {
	GetActiveServices(ctx context.Context, shopID int64) ([]*domain.Service, error)
	GetActiveStaff(ctx context.Context, shopID int64) ([]*domain.Staff, error)
	GetStaffServiceMap(ctx context.Context, shopID int64) (domain.StaffServiceMap, error)
}

// SettingsRepository интерфейс репозитория настроек точек
type SettingsRepository interface {
	ListEnabledSettings(ctx context.Context) ([]*domain.QueueSettings, error)
	GetBusinessHours(ctx context.Context, shopID int64) (*domain.WeekSchedule, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	// DoReadOnly выполняет fn в read-only транзакции
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReservationService интерфейс сервиса предварительных броней
type ReservationService interface {
	Reserve(ctx context.Context, p reservations.ReserveParams) (*domain.Booking, error)
	SweepExpired(ctx context.Context, shopID int64, now time.Time) (int, error)
}

// NotificationService интерфейс сервиса уведомлений
type NotificationService interface {
	MaybeNotify(ctx context.Context, p notifications.NotifyParams) notifications.Outcome
}

// MetricsCollector интерфейс счётчиков движка очереди (допускается nil)
type MetricsCollector interface {
	TickProcessed(status string, duration time.Duration)
	ShopError()
	ReservationCreated()
	NotificationResult(status string)
	ReservationExpired()
	EntryWithoutSlot()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
