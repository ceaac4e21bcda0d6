package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/respond"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"mongodb": checkMongo(r.Context(), d),
			"cache":   checkCache(r.Context(), d),
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Status:     determineStatus(components),
			Components: components,
		})
	}
}

func determineStatus(components map[string]componentStatus) string {
	// MongoDB down = every bookmark call fails
	if mongo, exists := components["mongodb"]; exists && !mongo.OK {
		return "critical"
	}

	// Cache down = reads go straight to MongoDB
	if cache, exists := components["cache"]; exists && !cache.OK {
		return "degraded"
	}

	return "operational"
}

func checkMongo(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Database.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "api-unavailable",
			Error:  "unreachable",
		}
	}
	return componentStatus{OK: true, Mode: "primary"}
}

func checkCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.Cache == nil {
		return componentStatus{
			OK:   true,
			Mode: "disabled",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Cache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "reads-uncached",
			Error:  "timeout",
		}
	}
	return componentStatus{
		OK:     true,
		Mode:   "read-through",
		Impact: "reads-cached",
	}
}
