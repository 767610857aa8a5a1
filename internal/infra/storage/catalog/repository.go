package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
	"github.com/m04kA/BRB-QueueMonitor/pkg/dbmetrics"
	"github.com/m04kA/BRB-QueueMonitor/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий справочных данных: услуги, мастера и их связи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveServices получает активные услуги точки
func (r *Repository) GetActiveServices(ctx context.Context, shopID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"duration_minutes",
		"price",
		"active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{
			"shop_id": shopID,
			"active":  true,
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var svc domain.Service
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&svc.ID,
			&svc.ShopID,
			&svc.Name,
			&svc.DurationMinutes,
			&svc.Price,
			&svc.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveServices - scan row: %v", ErrScanRow, err)
		}

		svc.CreatedAt = createdAt.Time
		svc.UpdatedAt = updatedAt.Time
		services = append(services, &svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetActiveStaff получает активных мастеров точки в порядке возрастания id
// Порядок фиксирован: при равных слотах выбирается мастер с меньшим id
func (r *Repository) GetActiveStaff(ctx context.Context, shopID int64) ([]*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"status",
		"created_at",
		"updated_at",
	).
		From("staff").
		Where(squirrel.Eq{
			"shop_id": shopID,
			"status":  domain.StaffActive,
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.Staff, 0)
	for rows.Next() {
		var member domain.Staff
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&member.ID,
			&member.ShopID,
			&member.Name,
			&member.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveStaff - scan row: %v", ErrScanRow, err)
		}

		member.CreatedAt = createdAt.Time
		member.UpdatedAt = updatedAt.Time
		staff = append(staff, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveStaff - rows error: %v", ErrScanRow, err)
	}

	return staff, nil
}

// GetStaffServiceMap получает связи мастер-услуга для точки
func (r *Repository) GetStaffServiceMap(ctx context.Context, shopID int64) (domain.StaffServiceMap, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"ss.staff_id",
		"ss.service_id",
	).
		From("staff_services ss").
		Join("staff s ON s.id = ss.staff_id").
		Where(squirrel.Eq{"s.shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceMap - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceMap - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(domain.StaffServiceMap)
	for rows.Next() {
		var staffID, serviceID int64
		if err := rows.Scan(&staffID, &serviceID); err != nil {
			return nil, fmt.Errorf("%w: GetStaffServiceMap - scan row: %v", ErrScanRow, err)
		}

		if result[staffID] == nil {
			result[staffID] = make(map[int64]struct{})
		}
		result[staffID][serviceID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStaffServiceMap - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
