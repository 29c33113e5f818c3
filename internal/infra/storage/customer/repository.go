package customer

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

// Repository репозиторий клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"full_name",
		"email",
		"phone",
		"total_rentals",
		"total_spent",
		"created_at",
		"updated_at",
	).
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var (
		c     domain.Customer
		phone sql.NullString
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.FullName,
		&c.Email,
		&phone,
		&c.TotalRentals,
		&c.TotalSpent,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %w", ErrScanRow, err)
	}
	c.Phone = phone.String

	return &c, nil
}

// AdjustAggregates атомарно сдвигает счётчики клиента (отрицательные значения уменьшают их)
func (r *Repository) AdjustAggregates(ctx context.Context, id int64, rentalsDelta int, spentDelta float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customers").
		Set("total_rentals", squirrel.Expr("GREATEST(total_rentals + ?, 0)", rentalsDelta)).
		Set("total_spent", squirrel.Expr("GREATEST(total_spent + ?, 0)", spentDelta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AdjustAggregates - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AdjustAggregates - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AdjustAggregates - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}
