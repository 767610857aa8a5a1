package messenger

import "errors"

var (
	// ErrNoCredentials возвращается, когда у точки не настроен мессенджер
	ErrNoCredentials = errors.New("messenger client: shop has no messenger credentials")

	// ErrUnauthorized возвращается при невалидном токене инстанса
	ErrUnauthorized = errors.New("messenger client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("messenger client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("messenger client: invalid response")
)
