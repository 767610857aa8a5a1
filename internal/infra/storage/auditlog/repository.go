package auditlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/dbmetrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий журнала аудита движка очереди
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert записывает событие аудита
// Если ID не задан, генерируется новый uuid
func (r *Repository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert("queue_audit_log").
		Columns(
			"id",
			"shop_id",
			"queue_entry_id",
			"booking_id",
			"event_type",
			"details",
		).
		Values(
			event.ID,
			event.ShopID,
			event.QueueEntryID,
			event.BookingID,
			event.EventType,
			event.Details,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
