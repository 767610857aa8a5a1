package queueentry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/dbmetrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с записями виртуальной очереди
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей очереди
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var entryColumns = []string{
	"id",
	"shop_id",
	"client_name",
	"client_phone",
	"service_id",
	"preferred_staff_id",
	"travel_minutes",
	"status",
	"priority_score",
	"reserved_staff_id",
	"reserved_start",
	"reserved_end",
	"notification_sent_at",
	"notification_expires_at",
	"created_at",
	"updated_at",
}

// GetWaitingByShop получает записи точки в статусе waiting
// в порядке FIFO (по времени создания)
func (r *Repository) GetWaitingByShop(ctx context.Context, shopID int64) ([]*domain.QueueEntry, error) {
	return r.getByShopAndStatus(ctx, shopID, domain.EntryStatusWaiting, nil, nil)
}

// GetExpiredNotified получает записи в статусе notified,
// у которых истекло окно подтверждения
func (r *Repository) GetExpiredNotified(ctx context.Context, shopID int64, now time.Time) ([]*domain.QueueEntry, error) {
	expiredBefore := squirrel.Lt{"notification_expires_at": now}
	return r.getByShopAndStatus(ctx, shopID, domain.EntryStatusNotified, expiredBefore, nil)
}

// GetUnnotifiedReserved получает записи в статусе notified с живой бронью,
// по которым сообщение ещё не отправлялось (бронь создана вне окна уведомления)
func (r *Repository) GetUnnotifiedReserved(ctx context.Context, shopID int64) ([]*domain.QueueEntry, error) {
	unsent := squirrel.Eq{"notification_sent_at": nil}
	return r.getByShopAndStatus(ctx, shopID, domain.EntryStatusNotified, nil, unsent)
}

func (r *Repository) getByShopAndStatus(
	ctx context.Context,
	shopID int64,
	status domain.QueueEntryStatus,
	extra ...squirrel.Sqlizer,
) ([]*domain.QueueEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("queue_entries").
		Where(squirrel.Eq{
			"shop_id": shopID,
			"status":  status,
		}).
		OrderBy("created_at ASC")

	for _, cond := range extra {
		if cond != nil {
			selectBuilder = selectBuilder.Where(cond)
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByShopAndStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getByShopAndStatus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// ReserveUpdate параметры перевода записи в статус notified
type ReserveUpdate struct {
	StaffID       int64
	ReservedStart time.Time // UTC
	ReservedEnd   time.Time // UTC
	PriorityScore float64
	ExpiresAt     time.Time // дедлайн подтверждения
}

// MarkReserved переводит запись из waiting в notified и фиксирует
// зарезервированный интервал, мастера, приоритет и дедлайн подтверждения
// Отметка notification_sent_at ставится отдельно при фактической отправке
// Условие status=waiting делает переход идемпотентным
func (r *Repository) MarkReserved(ctx context.Context, id int64, upd ReserveUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("queue_entries").
		Set("status", domain.EntryStatusNotified).
		Set("reserved_staff_id", upd.StaffID).
		Set("reserved_start", upd.ReservedStart).
		Set("reserved_end", upd.ReservedEnd).
		Set("priority_score", upd.PriorityScore).
		Set("notification_expires_at", upd.ExpiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.EntryStatusWaiting,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReserved - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkReserved")
}

// MarkNotificationSent фиксирует момент фактической отправки уведомления
func (r *Repository) MarkNotificationSent(ctx context.Context, id int64, sentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("queue_entries").
		Set("notification_sent_at", sentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.EntryStatusNotified,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkNotificationSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkNotificationSent")
}

// MarkExpired переводит запись из notified в терминальный статус expired
func (r *Repository) MarkExpired(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("queue_entries").
		Set("status", domain.EntryStatusExpired).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.EntryStatusNotified,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkExpired - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkExpired")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// scanEntries сканирует результаты запроса в слайс записей очереди
func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.QueueEntry, error) {
	entries := make([]*domain.QueueEntry, 0)

	for rows.Next() {
		var entry domain.QueueEntry
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.ShopID,
			&entry.ClientName,
			&entry.ClientPhone,
			&entry.ServiceID,
			&entry.PreferredStaffID,
			&entry.TravelMinutes,
			&entry.Status,
			&entry.PriorityScore,
			&entry.ReservedStaffID,
			&entry.ReservedStart,
			&entry.ReservedEnd,
			&entry.NotificationSentAt,
			&entry.NotificationExpiresAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
