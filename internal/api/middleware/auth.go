package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/BRB-QueueMonitor/internal/api/handlers"
)

const internalTokenHeader = "X-Internal-Token"

// InternalAuth проверяет служебный токен во внутренних ручках
// Если токен в конфигурации пуст, проверка отключена
func InternalAuth(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get(internalTokenHeader) != token {
				handlers.RespondUnauthorized(w, "недействительный служебный токен")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
