package txmanager

import (
	"context"
	"database/sql"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// RetryRecorder счётчик повторов транзакций
type RetryRecorder interface {
	IncTxRetry()
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
