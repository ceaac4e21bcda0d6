package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
	ops bool
}

var registry []entry

// Register a public registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterOps registers an operational endpoint, served only to allowed IPs and hosts.
func RegisterOps(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws, ops: true})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	guard := []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}

	for _, e := range registry {
		var sub chi.Router = r
		if e.ops {
			sub = sub.With(guard...)
		}
		if len(e.mws) > 0 {
			sub = sub.With(e.mws...) // apply per-route middlewares
		}
		e.reg(sub, d)
	}
}
