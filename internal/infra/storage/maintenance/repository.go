package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"vehicle_id",
	"type",
	"scheduled_date",
	"cost",
	"provider",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей обслуживания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория обслуживания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись обслуживания
func (r *Repository) Create(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("maintenance").
		Columns("vehicle_id", "type", "scheduled_date", "cost", "provider", "status", "notes").
		Values(m.VehicleID, m.Type, m.ScheduledDate, m.Cost, m.Provider, m.Status, m.Notes).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return m, nil
}

// GetByID получает запись обслуживания по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("maintenance").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	m, err := scanMaintenance(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMaintenanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan maintenance: %w", ErrScanRow, err)
	}

	return m, nil
}

// ListPendingByVehicle получает незавершённые (scheduled / in_progress) записи автомобиля
func (r *Repository) ListPendingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Maintenance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	pending := make([]string, len(domain.PendingMaintenanceStatuses))
	for i, s := range domain.PendingMaintenanceStatuses {
		pending[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("maintenance").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": pending}).
		OrderBy("scheduled_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingByVehicle - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingByVehicle - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.Maintenance, 0)
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPendingByVehicle - scan row: %w", ErrScanRow, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPendingByVehicle - rows error: %w", ErrScanRow, err)
	}

	return records, nil
}

// Update сохраняет изменяемые поля записи обслуживания
func (r *Repository) Update(ctx context.Context, m *domain.Maintenance) error {
	query, args, err := psqlbuilder.Update("maintenance").
		Set("type", m.Type).
		Set("scheduled_date", m.ScheduledDate).
		Set("cost", m.Cost).
		Set("provider", m.Provider).
		Set("status", m.Status).
		Set("notes", m.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Update", query, args)
}

// UpdateStatus меняет только статус записи (используется при отмене по override)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error {
	query, args, err := psqlbuilder.Update("maintenance").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdateStatus", query, args)
}

// Delete удаляет запись обслуживания
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("maintenance").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Delete", query, args)
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrMaintenanceNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMaintenance(row scanner) (*domain.Maintenance, error) {
	var m domain.Maintenance

	err := row.Scan(
		&m.ID,
		&m.VehicleID,
		&m.Type,
		&m.ScheduledDate,
		&m.Cost,
		&m.Provider,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.ScheduledDate = domain.DateOf(m.ScheduledDate)
	return &m, nil
}
