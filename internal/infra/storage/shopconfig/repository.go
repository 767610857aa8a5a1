package shopconfig

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/dbmetrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/psqlbuilder"
	"github.com/m04kA/BRB-QueueMonitor/pkg/types"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий настроек очереди и рабочих часов точек
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListEnabledSettings получает настройки всех точек с включённой виртуальной
// очередью в порядке возрастания shop_id
func (r *Repository) ListEnabledSettings(ctx context.Context) ([]*domain.QueueSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"shop_id",
		"enabled",
		"eta_weight",
		"position_weight",
		"wait_time_bonus",
		"buffer_percent",
		"utc_offset_minutes",
		"messenger_instance",
		"messenger_token",
		"created_at",
		"updated_at",
	).
		From("queue_settings").
		Where(squirrel.Eq{"enabled": true}).
		OrderBy("shop_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledSettings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEnabledSettings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	settings := make([]*domain.QueueSettings, 0)
	for rows.Next() {
		var s domain.QueueSettings
		var etaWeight, positionWeight, waitTimeBonus sql.NullFloat64
		var instance, token sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ShopID,
			&s.Enabled,
			&etaWeight,
			&positionWeight,
			&waitTimeBonus,
			&s.BufferPercent,
			&s.UTCOffsetMinutes,
			&instance,
			&token,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListEnabledSettings - scan row: %v", ErrScanRow, err)
		}

		// NULL вес означает "значение движка по умолчанию"
		s.EtaWeight = floatOrDefault(etaWeight, domain.DefaultEtaWeight)
		s.PositionWeight = floatOrDefault(positionWeight, domain.DefaultPositionWeight)
		s.WaitTimeBonus = floatOrDefault(waitTimeBonus, domain.DefaultWaitTimeBonus)
		s.MessengerInstance = instance.String
		s.MessengerToken = token.String
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		settings = append(settings, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListEnabledSettings - rows error: %v", ErrScanRow, err)
	}

	return settings, nil
}

// GetBusinessHours получает рабочие часы точки на все дни недели
// Хранятся построчно: weekday 0 (воскресенье) ... 6 (суббота)
func (r *Repository) GetBusinessHours(ctx context.Context, shopID int64) (*domain.WeekSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"is_open",
		"open_time",
		"close_time",
	).
		From("business_hours").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := &domain.WeekSchedule{ShopID: shopID}
	found := false

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule
		var openTime, closeTime *types.TimeString

		if err := rows.Scan(&weekday, &day.IsOpen, &openTime, &closeTime); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %v", ErrScanRow, err)
		}

		day.OpenTime = openTime
		day.CloseTime = closeTime
		setDaySchedule(schedule, time.Weekday(weekday), day)
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrHoursNotFound
	}

	return schedule, nil
}

func floatOrDefault(v sql.NullFloat64, def float64) float64 {
	if v.Valid {
		return v.Float64
	}
	return def
}

func setDaySchedule(w *domain.WeekSchedule, day time.Weekday, sched domain.DaySchedule) {
	switch day {
	case time.Monday:
		w.Monday = sched
	case time.Tuesday:
		w.Tuesday = sched
	case time.Wednesday:
		w.Wednesday = sched
	case time.Thursday:
		w.Thursday = sched
	case time.Friday:
		w.Friday = sched
	case time.Saturday:
		w.Saturday = sched
	case time.Sunday:
		w.Sunday = sched
	}
}
