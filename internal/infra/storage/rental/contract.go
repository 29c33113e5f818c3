package rental

import "github.com/tejjzakaria/Carvo-Rentals-sub002/pkg/dbmetrics"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
