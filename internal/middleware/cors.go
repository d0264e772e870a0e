package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"krishimitra-go/internal/config"
)

// CORS 用 rs/cors 包装整个 handler。
// allowed_origins 包含 "*" 时放行所有来源，并回显请求的 Origin，
// 这样在 allow_credentials 为 true 时浏览器也能接受响应。
func CORS(cfg config.CORSConfig, next http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if allowsAnyOrigin(cfg.AllowedOrigins) {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = cfg.AllowedOrigins
	}
	return cors.New(opts).Handler(next)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
