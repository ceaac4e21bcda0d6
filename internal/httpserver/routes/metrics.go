package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/metrics"
)

func init() { RegisterOps(registerMetrics) }

func registerMetrics(r chi.Router, _ deps.Deps) {
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}
