package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"
)

const (
	DefaultMaxRetries = 3
	defaultBackoff    = 20 * time.Millisecond
)

// Коды PostgreSQL, при которых транзакцию безопасно повторить целиком
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// Manager выполняет функции в транзакции, повторяя их при конфликтах сериализации
type Manager struct {
	db            TxBeginner
	maxRetries    int
	backoff       time.Duration
	exhaustedErr  error
	retryRecorder RetryRecorder
	logger        Logger
}

type Option func(*Manager)

// WithMaxRetries задаёт число повторов после первой попытки
func WithMaxRetries(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.maxRetries = n
		}
	}
}

// WithBackoff задаёт базовую паузу между повторами (растёт линейно)
func WithBackoff(d time.Duration) Option {
	return func(m *Manager) {
		m.backoff = d
	}
}

// WithExhaustedError добавляет доменную ошибку к ErrRetriesExhausted
func WithExhaustedError(err error) Option {
	return func(m *Manager) {
		m.exhaustedErr = err
	}
}

func WithRetryRecorder(r RetryRecorder) Option {
	return func(m *Manager) {
		m.retryRecorder = r
	}
}

func WithLogger(l Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *Manager {
	m := &Manager{
		db:         db,
		maxRetries: DefaultMaxRetries,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
// При ошибках сериализации и дедлоках fn перезапускается с нуля
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов: переиспользуем внешнюю транзакцию, повторами управляет внешний вызов
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			if m.retryRecorder != nil {
				m.retryRecorder.IncTxRetry()
			}
			if m.logger != nil {
				m.logger.Warn("txmanager: retrying transaction, attempt %d/%d: %v", attempt, m.maxRetries, lastErr)
			}
			if err := m.sleep(ctx, attempt); err != nil {
				return err
			}
		}

		lastErr = m.attempt(ctx, opts, fn)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
	}

	if m.exhaustedErr != nil {
		return fmt.Errorf("%w: %w: %w", ErrRetriesExhausted, m.exhaustedErr, lastErr)
	}
	return fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

func (m *Manager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	return nil
}

func (m *Manager) sleep(ctx context.Context, attempt int) error {
	if m.backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.backoff * time.Duration(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable сообщает, вызвана ли ошибка конфликтом сериализации или дедлоком
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	code := string(pqErr.Code)
	return code == pqSerializationFailure || code == pqDeadlockDetected
}
