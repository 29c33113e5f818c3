package damage

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
	"rental_id",
	"severity",
	"status",
	"description",
	"repair_cost",
	"reported_at",
	"updated_at",
}

// Repository репозиторий повреждений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория повреждений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет отчёт о повреждении
func (r *Repository) Create(ctx context.Context, damage *domain.Damage) (*domain.Damage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("damages").
		Columns("vehicle_id", "rental_id", "severity", "status", "description", "repair_cost").
		Values(damage.VehicleID, damage.RentalID, damage.Severity, damage.Status, damage.Description, damage.RepairCost).
		Suffix("RETURNING id, reported_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&damage.ID, &damage.ReportedAt, &damage.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return damage, nil
}

// GetByID получает повреждение по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Damage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("damages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	damage, err := scanDamage(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDamageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan damage: %w", ErrScanRow, err)
	}

	return damage, nil
}

// ListOpenByVehicle получает открытые (reported / in_repair) повреждения автомобиля
func (r *Repository) ListOpenByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Damage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	open := make([]string, len(domain.OpenDamageStatuses))
	for i, s := range domain.OpenDamageStatuses {
		open[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(columns...).
		From("damages").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": open}).
		OrderBy("reported_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVehicle - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVehicle - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	damages := make([]*domain.Damage, 0)
	for rows.Next() {
		d, err := scanDamage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOpenByVehicle - scan row: %w", ErrScanRow, err)
		}
		damages = append(damages, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVehicle - rows error: %w", ErrScanRow, err)
	}

	return damages, nil
}

// Update сохраняет изменяемые поля повреждения
func (r *Repository) Update(ctx context.Context, damage *domain.Damage) error {
	query, args, err := psqlbuilder.Update("damages").
		Set("severity", damage.Severity).
		Set("status", damage.Status).
		Set("description", damage.Description).
		Set("repair_cost", damage.RepairCost).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": damage.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Update", query, args)
}

// Delete удаляет повреждение
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("damages").
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
		return ErrDamageNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDamage(row scanner) (*domain.Damage, error) {
	var (
		d        domain.Damage
		rentalID sql.NullInt64
	)

	err := row.Scan(
		&d.ID,
		&d.VehicleID,
		&rentalID,
		&d.Severity,
		&d.Status,
		&d.Description,
		&d.RepairCost,
		&d.ReportedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rentalID.Valid {
		id := rentalID.Int64
		d.RentalID = &id
	}

	return &d, nil
}
