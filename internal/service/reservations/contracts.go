package reservations

import (
	"context"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/infra/storage/queueentry"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CreateProvisional(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	DeleteProvisionalByEntry(ctx context.Context, entryID int64) (int64, error)
}

// QueueEntryRepository интерфейс репозитория записей очереди
type QueueEntryRepository interface {
	GetExpiredNotified(ctx context.Context, shopID int64, now time.Time) ([]*domain.QueueEntry, error)
	MarkReserved(ctx context.Context, id int64, upd queueentry.ReserveUpdate) error
	MarkExpired(ctx context.Context, id int64) error
}

// AuditRepository интерфейс репозитория журнала аудита
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
