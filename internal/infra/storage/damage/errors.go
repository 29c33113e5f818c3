package damage

import "errors"

var (
	// ErrDamageNotFound возвращается, когда повреждение не найдено
	ErrDamageNotFound = errors.New("damage.repository: damage not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("damage.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("damage.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("damage.repository: failed to scan row")
)
