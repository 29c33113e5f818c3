package vehicle

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
	"make",
	"model",
	"plate_number",
	"price_per_day",
	"status",
	"override_status",
	"override_reason",
	"override_set_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий автомобилей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория автомобилей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает автомобиль по ID без блокировки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, "GetByID", id, false)
}

// LockByID получает автомобиль и блокирует его строку (SELECT ... FOR UPDATE) до конца транзакции.
// Все изменения аренд, повреждений и обслуживания автомобиля начинаются с этой блокировки.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrLockRequiresTx
	}
	return r.get(ctx, "LockByID", id, true)
}

func (r *Repository) get(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From("vehicles").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	vehicle, err := scanVehicle(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan vehicle: %w", ErrScanRow, op, err)
	}

	return vehicle, nil
}

// List получает все автомобили, упорядоченные по ID
func (r *Repository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("vehicles").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return vehicles, nil
}

// SaveDerivedStatus записывает вычисленный статус и снимает ручное переопределение
func (r *Repository) SaveDerivedStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	query, args, err := psqlbuilder.Update("vehicles").
		Set("status", status).
		Set("override_status", nil).
		Set("override_reason", nil).
		Set("override_set_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveDerivedStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "SaveDerivedStatus", query, args)
}

// SetOverride принудительно выставляет статус администратором
func (r *Repository) SetOverride(ctx context.Context, id int64, override domain.ManualOverride) error {
	query, args, err := psqlbuilder.Update("vehicles").
		Set("status", override.Status).
		Set("override_status", override.Status).
		Set("override_reason", override.Reason).
		Set("override_set_at", override.SetAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetOverride - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "SetOverride", query, args)
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row scanner) (*domain.Vehicle, error) {
	var (
		v              domain.Vehicle
		overrideStatus sql.NullString
		overrideReason sql.NullString
		overrideSetAt  sql.NullTime
	)

	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.PlateNumber,
		&v.PricePerDay,
		&v.Status,
		&overrideStatus,
		&overrideReason,
		&overrideSetAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if overrideStatus.Valid {
		v.Override = &domain.ManualOverride{
			Status: domain.VehicleStatus(overrideStatus.String),
			Reason: overrideReason.String,
			SetAt:  overrideSetAt.Time,
		}
	}

	return &v, nil
}
