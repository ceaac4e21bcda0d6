package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string        // ex: "0.0.0.0:3000", built from HOST and PORT
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// MongoDB
	MongoURI           string        // ex: "mongodb://localhost:27017"
	MongoDatabase      string        // fixed database name
	MongoCollection    string        // fixed collection name
	MongoPoolSize      uint64        // max connections in the driver pool
	MongoConnect       time.Duration // total time to retry connecting (ex: 30s)
	MongoRetryInterval time.Duration // initial wait between retries, grows exponentially
	MongoMaxWait       time.Duration // max wait between retries
	MongoPingTimeout   time.Duration // timeout for each ping attempt
	MongoWarnThreshold int           // warn after this many attempts

	// Listing
	DefaultPageSize uint32 // size used when the client sends none
	MaxPageSize     uint32 // upper bound on size, 0 = unbounded

	// Redis cache (optional, empty RedisAddr = disabled)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
	RedisWarnThreshold  int
	CacheTTL            time.Duration // lifetime of a cached bookmark

	// Import
	ImportFile string // Homepage bookmarks.yaml imported at startup, empty = disabled

	// HTTP surface
	CORSOrigins      []string // allowed origins, "*" = any
	AllowedHosts     []string // Host headers accepted on operational endpoints, empty = any
	AllowedCIDRS     []string // restrict operational endpoints to these IPs/CIDRs, empty = open
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	RateLimitBurst   int      // token bucket size per client IP, 0 = disabled
	RateLimitPerMin  int      // refill rate per client IP per minute
	RateLimitEntries int      // max tracked client IPs
}

// CacheEnabled reports whether a redis address was configured.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// Load reads the environment, after loading a .env file from the working directory if present.
func Load() *Config {
	loadDotEnv(".env")

	cfg := &Config{
		// Server settings
		ListenAddr:      net.JoinHostPort(getenv("HOST", "0.0.0.0"), getenv("PORT", "3000")),
		ShutdownTimeout: mustDuration("BOOKMARKS_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BOOKMARKS_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("BOOKMARKS_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BOOKMARKS_PRETTY_LOG", false),

		// MongoDB settings
		MongoURI:           getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGODB_DATABASE", "bookmarks_db"),
		MongoCollection:    getenv("MONGODB_COLLECTION", "bookmarks"),
		MongoPoolSize:      uint64(getenvInt("MONGODB_POOL_SIZE", 100)),
		MongoConnect:       mustDuration("MONGODB_CONNECT_TIMEOUT", 30*time.Second),
		MongoRetryInterval: mustDuration("MONGODB_RETRY_INTERVAL", 2*time.Second),
		MongoMaxWait:       mustDuration("MONGODB_MAX_WAIT", 10*time.Second),
		MongoPingTimeout:   mustDuration("MONGODB_PING_TIMEOUT", 5*time.Second),
		MongoWarnThreshold: getenvInt("MONGODB_WARN_THRESHOLD", 3),

		// Listing
		DefaultPageSize: getenvUint32("BOOKMARKS_DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     getenvUint32("BOOKMARKS_MAX_PAGE_SIZE", 100),

		// Redis settings
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisUser:           getenv("REDIS_USERNAME", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		CacheTTL:            mustDuration("REDIS_CACHE_TTL", 10*time.Minute),

		// Import
		ImportFile: getenv("BOOKMARKS_IMPORT_FILE", ""),

		// HTTP surface
		CORSOrigins:      splitAndTrim(getenv("BOOKMARKS_CORS_ORIGINS", "*")),
		AllowedHosts:     splitAndTrim(getenv("BOOKMARKS_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     splitAndTrim(getenv("BOOKMARKS_ALLOWED_CIDRS", "")),
		TrustProxy:       mustBool("BOOKMARKS_TRUST_PROXY", false),
		RateLimitBurst:   getenvInt("BOOKMARKS_RATE_LIMIT_BURST", 0),
		RateLimitPerMin:  getenvInt("BOOKMARKS_RATE_LIMIT_PER_MIN", 600),
		RateLimitEntries: getenvInt("BOOKMARKS_RATE_LIMIT_MAX_ENTRIES", 10000),
	}

	if cfg.MongoURI == "" {
		panic("❌ FATAL: MONGODB_URI must not be empty")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.MongoURI = redactURI(c.MongoURI)
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// redactURI hides the userinfo part of a connection string.
func redactURI(uri string) string {
	scheme := strings.Index(uri, "://")
	at := strings.LastIndex(uri, "@")
	if scheme == -1 || at == -1 || at < scheme {
		return uri
	}
	return uri[:scheme+3] + "***REDACTED***" + uri[at:]
}

// loadDotEnv loads path into the environment without overriding variables already set.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(fmt.Sprintf("❌ FATAL: failed to load %s: %v", path, err))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvUint32(key string, def uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(i)
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
