package rental

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/psqlbuilder"
)

var columns = []string{
	"id",
	"code",
	"vehicle_id",
	"customer_id",
	"start_date",
	"end_date",
	"status",
	"payment_status",
	"total_amount",
	"with_driver",
	"insurance",
	"created_at",
	"updated_at",
}

// Repository репозиторий аренд
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аренд
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает аренду и заполняет ID и временные метки
func (r *Repository) Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rentals").
		Columns(
			"code",
			"vehicle_id",
			"customer_id",
			"start_date",
			"end_date",
			"status",
			"payment_status",
			"total_amount",
			"with_driver",
			"insurance",
		).
		Values(
			rental.Code,
			rental.VehicleID,
			rental.CustomerID,
			rental.StartDate,
			rental.EndDate,
			rental.Status,
			rental.PaymentStatus,
			rental.TotalAmount,
			rental.WithDriver,
			rental.Insurance,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return rental, nil
}

// GetByID получает аренду по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	rental, err := scanRental(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rental: %w", ErrScanRow, err)
	}

	return rental, nil
}

// ListBlockingByVehicle получает аренды автомобиля в статусах pending/active
func (r *Repository) ListBlockingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Rental, error) {
	builder := psqlbuilder.Select(columns...).
		From("rentals").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		Where(squirrel.Eq{"status": blockingStatuses()}).
		OrderBy("start_date ASC")

	return r.list(ctx, "ListBlockingByVehicle", builder)
}

// ListBlockingBetween получает блокирующие аренды всех автомобилей, пересекающие [from, to]
// (границы включительно; точную политику пересечения применяет вызывающий код)
func (r *Repository) ListBlockingBetween(ctx context.Context, from, to time.Time) ([]*domain.Rental, error) {
	builder := psqlbuilder.Select(columns...).
		From("rentals").
		Where(squirrel.Eq{"status": blockingStatuses()}).
		Where(squirrel.LtOrEq{"start_date": to}).
		Where(squirrel.GtOrEq{"end_date": from}).
		OrderBy("vehicle_id ASC, start_date ASC")

	return r.list(ctx, "ListBlockingBetween", builder)
}

// UpdateStatus обновляет статус аренды
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.RentalStatus) error {
	query, args, err := psqlbuilder.Update("rentals").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdateStatus", query, args)
}

// UpdateEndDate продлевает аренду: новая дата окончания и итоговая сумма
func (r *Repository) UpdateEndDate(ctx context.Context, id int64, endDate time.Time, totalAmount float64) error {
	query, args, err := psqlbuilder.Update("rentals").
		Set("end_date", endDate).
		Set("total_amount", totalAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateEndDate - build update query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdateEndDate", query, args)
}

// Delete физически удаляет ошибочную аренду
// Для отмены аренды используется UpdateStatus(cancelled)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete("rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Delete", query, args)
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	rentals := make([]*domain.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return rentals, nil
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
		return ErrRentalNotFound
	}

	return nil
}

func blockingStatuses() []string {
	statuses := make([]string, len(domain.BlockingRentalStatuses))
	for i, s := range domain.BlockingRentalStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row scanner) (*domain.Rental, error) {
	var rental domain.Rental

	err := row.Scan(
		&rental.ID,
		&rental.Code,
		&rental.VehicleID,
		&rental.CustomerID,
		&rental.StartDate,
		&rental.EndDate,
		&rental.Status,
		&rental.PaymentStatus,
		&rental.TotalAmount,
		&rental.WithDriver,
		&rental.Insurance,
		&rental.CreatedAt,
		&rental.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rental.StartDate = domain.DateOf(rental.StartDate)
	rental.EndDate = domain.DateOf(rental.EndDate)

	return &rental, nil
}
