package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSConfig настройки CORS для браузерного фронтенда
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
	Debug          bool
}

// CORS оборачивает роутер обработчиком preflight-запросов
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", HostIDHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
		Debug:            cfg.Debug,
	})
	return c.Handler
}
