package booking

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

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"shop_id",
	"staff_id",
	"service_id",
	"queue_entry_id",
	"start_at",
	"end_at",
	"status",
	"payment_status",
	"service_name",
	"service_price",
	"client_name",
	"client_phone",
	"created_at",
	"updated_at",
}

// GetActiveByShopRange получает все активные бронирования точки,
// пересекающиеся с интервалом [from, to) (границы в UTC)
// Отменённые и no-show бронирования не занимают интервал и исключаются
func (r *Repository) GetActiveByShopRange(ctx context.Context, shopID int64, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings}).
		OrderBy("staff_id ASC, start_at ASC")

	// Внутри транзакции блокируем строки на время проверки доступности
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByShopRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByShopRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CreateProvisional создает предварительную бронь со статусом queue_reserved,
// связанную с записью в очереди
func (r *Repository) CreateProvisional(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"shop_id",
			"staff_id",
			"service_id",
			"queue_entry_id",
			"start_at",
			"end_at",
			"status",
			"payment_status",
			"service_name",
			"service_price",
			"client_name",
			"client_phone",
		).
		Values(
			booking.ShopID,
			booking.StaffID,
			booking.ServiceID,
			booking.QueueEntryID,
			booking.StartAt,
			booking.EndAt,
			domain.StatusQueueReserved,
			domain.PaymentPending,
			booking.ServiceName,
			booking.ServicePrice,
			booking.ClientName,
			booking.ClientPhone,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateProvisional - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateProvisional - execute insert: %v", ErrExecQuery, err)
	}

	booking.Status = domain.StatusQueueReserved
	booking.PaymentStatus = domain.PaymentPending
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// DeleteProvisionalByEntry удаляет предварительную бронь записи очереди
// Удаляются только строки со статусом queue_reserved: подтверждённую бронь
// (внешний flow меняет статус) не трогаем
// Возвращает количество удалённых строк; 0 - не ошибка
func (r *Repository) DeleteProvisionalByEntry(ctx context.Context, entryID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{
			"queue_entry_id": entryID,
			"status":         domain.StatusQueueReserved,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteProvisionalByEntry - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteProvisionalByEntry - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteProvisionalByEntry - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ShopID,
			&booking.StaffID,
			&booking.ServiceID,
			&booking.QueueEntryID,
			&booking.StartAt,
			&booking.EndAt,
			&booking.Status,
			&booking.PaymentStatus,
			&booking.ServiceName,
			&booking.ServicePrice,
			&booking.ClientName,
			&booking.ClientPhone,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
