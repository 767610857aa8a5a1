package process_queue_tick

import "errors"

var (
	// ErrMissingReferenceData возвращается, когда у точки нет обязательных
	// справочных данных (рабочие часы, услуги, мастера)
	ErrMissingReferenceData = errors.New("shop is missing required reference data")

	// ErrLoadState возвращается при ошибке загрузки состояния точки
	ErrLoadState = errors.New("failed to load shop state")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
