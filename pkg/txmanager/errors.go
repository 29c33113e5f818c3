package txmanager

import "errors"

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted транзакция не прошла после всех повторов из-за конфликтов сериализации
	ErrRetriesExhausted = errors.New("txmanager: retries exhausted")
)
