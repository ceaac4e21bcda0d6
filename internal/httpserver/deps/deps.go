package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

// Pinger is a backend that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Importer loads Homepage bookmarks into the store.
type Importer interface {
	ImportFile(ctx context.Context, path string) (homepage.Result, error)
	Import(ctx context.Context, config homepage.BookmarksConfig) (homepage.Result, error)
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Build        version.Info
	AllowedHosts []string // Host headers allowed on operational endpoints
	AllowedCIDRS []string // IPs allowed to access healthz/readyz/infra/metrics/import
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string

	Bookmarks service.Service // shared, immutable after construction
	Database  Pinger          // MongoDB
	Cache     Pinger          // Redis bookmark cache, nil when disabled

	Importer   Importer
	ImportFile string // default file for POST /import, empty = body required

	DefaultPageSize uint32
	MaxPageSize     uint32 // 0 = unbounded

	RateLimitBurst   int // 0 = disabled
	RateLimitPerMin  int
	RateLimitEntries int
}
