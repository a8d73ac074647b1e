package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

// HostIDHeader заголовок, который выставляет шлюз после аутентификации
const HostIDHeader = "X-Host-ID"

const msgUnauthorized = "требуется авторизация"

type contextKey string

const hostIDKey contextKey = "host_id"

// Auth кладёт ID хоста из заголовка X-Host-ID в контекст
// Запросы без заголовка или с некорректным значением получают 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HostIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		hostID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || hostID <= 0 {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithHostID(r.Context(), hostID)))
	})
}

// WithHostID возвращает контекст с ID хоста
func WithHostID(ctx context.Context, hostID int64) context.Context {
	return context.WithValue(ctx, hostIDKey, hostID)
}

// GetHostID достаёт ID хоста, положенный Auth
func GetHostID(ctx context.Context) (int64, bool) {
	hostID, ok := ctx.Value(hostIDKey).(int64)
	return hostID, ok
}
