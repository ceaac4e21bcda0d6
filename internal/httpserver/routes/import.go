package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/handlers"
)

func init() { RegisterOps(registerImport) }

func registerImport(r chi.Router, d deps.Deps) {
	r.Post("/import", handlers.Import(d))
}
