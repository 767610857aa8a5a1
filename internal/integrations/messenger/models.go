package messenger

// Credentials учётные данные точки в мессенджер-шлюзе
type Credentials struct {
	Instance string // идентификатор инстанса точки
	Token    string // API-токен инстанса
}

// sendTextRequest тело запроса на отправку текстового сообщения
type sendTextRequest struct {
	Number string `json:"number"` // телефон получателя
	Text   string `json:"text"`
}

// sendTextResponse ответ шлюза на отправку сообщения
type sendTextResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
