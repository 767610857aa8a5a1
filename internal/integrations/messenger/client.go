package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент мессенджер-шлюза (WhatsApp gateway)
// Каждая точка имеет собственный инстанс и токен, общий только базовый URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента мессенджер-шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendText отправляет текстовое сообщение от имени инстанса точки
func (c *Client) SendText(ctx context.Context, creds Credentials, phone, text string) error {
	if creds.Instance == "" || creds.Token == "" {
		return ErrNoCredentials
	}

	url := fmt.Sprintf("%s/message/sendText/%s", c.baseURL, creds.Instance)

	body, err := json.Marshal(sendTextRequest{
		Number: phone,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", creds.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: instance=%s: %s", ErrUnauthorized, creds.Instance, gatewayError(resp.Body))
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, gatewayError(resp.Body))
	}

	var result sendTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Messenger: message sent via instance=%s, message_id=%s", creds.Instance, result.MessageID)
	return nil
}

// gatewayError извлекает сообщение об ошибке из тела ответа шлюза
// Если тело не разбирается как ErrorResponse, возвращается как есть
func gatewayError(body io.Reader) string {
	raw, err := io.ReadAll(body)
	if err != nil || len(raw) == 0 {
		return "empty body"
	}

	var gwErr ErrorResponse
	if err := json.Unmarshal(raw, &gwErr); err == nil && gwErr.Message != "" {
		return gwErr.Message
	}
	return string(raw)
}
