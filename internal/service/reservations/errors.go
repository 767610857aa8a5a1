package reservations

import "errors"

var (
	// ErrReserveFailed возвращается, когда не удалось создать предварительную бронь
	ErrReserveFailed = errors.New("reservations.service: failed to reserve slot")

	// ErrSweepFailed возвращается при ошибке снятия просроченных броней
	ErrSweepFailed = errors.New("reservations.service: failed to sweep expired reservations")
)
