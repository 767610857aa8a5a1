package shopconfig

import "errors"

var (
	// ErrHoursNotFound возвращается, когда рабочие часы точки не найдены
	ErrHoursNotFound = errors.New("shopconfig.repository: business hours not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("shopconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("shopconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("shopconfig.repository: failed to scan row")
)
