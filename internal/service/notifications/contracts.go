package notifications

import (
	"context"
	"time"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/internal/integrations/messenger"
)

// MessengerClient интерфейс клиента мессенджер-шлюза
type MessengerClient interface {
	SendText(ctx context.Context, creds messenger.Credentials, phone, text string) error
}

// QueueEntryRepository интерфейс репозитория записей очереди
type QueueEntryRepository interface {
	MarkNotificationSent(ctx context.Context, id int64, sentAt time.Time) error
}

// AuditRepository интерфейс репозитория журнала аудита
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
