package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS 允许任意来源的浏览器客户端调用聊天接口。
var CORS = cors.Handler(cors.Options{
	AllowedOrigins:       []string{"*"},
	AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders:       []string{"Accept", "Content-Type", "X-Request-Id"},
	ExposedHeaders:       []string{"X-Request-Id"},
	MaxAge:               300,
	OptionsSuccessStatus: http.StatusNoContent,
})
