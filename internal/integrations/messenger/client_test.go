package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testCreds = Credentials{Instance: "inst-1", Token: "secret"}

func TestSendText(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody sendTextRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sendTextResponse{MessageID: "msg-1", Status: "PENDING"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	err := client.SendText(context.Background(), testCreds, "+5511999999999", "Подошла ваша очередь")
	require.NoError(t, err)

	assert.Equal(t, "/message/sendText/inst-1", gotPath)
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "+5511999999999", gotBody.Number)
	assert.Equal(t, "Подошла ваша очередь", gotBody.Text)
}

func TestSendText_NoCredentials(t *testing.T) {
	client := NewClient("http://localhost:1", time.Second, nopLogger{})

	err := client.SendText(context.Background(), Credentials{}, "+5511999999999", "text")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestSendText_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Code: 401, Message: "invalid api key"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	err := client.SendText(context.Background(), testCreds, "+5511999999999", "text")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Сообщение шлюза попадает в текст ошибки
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSendText_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("instance offline"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	err := client.SendText(context.Background(), testCreds, "+5511999999999", "text")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	// Тело без структуры ErrorResponse попадает в ошибку как есть
	assert.Contains(t, err.Error(), "instance offline")
}

func TestSendText_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	err := client.SendText(context.Background(), testCreds, "+5511999999999", "text")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSendText_ConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, nopLogger{})

	err := client.SendText(context.Background(), testCreds, "+5511999999999", "text")
	assert.ErrorIs(t, err, ErrInternal)
}
