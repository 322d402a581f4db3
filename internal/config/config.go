package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// placeholder value shipped in example env files; treated the same as unset.
const credentialPlaceholder = "CHANGE_ME"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Generation
	TablesFile string // optional YAML override for style/interest tables

	// Oracle (primary, authenticated)
	OracleBaseURL      string        // authority API base URL
	OracleCredentialID string        // empty or placeholder => fallback-only mode
	OracleSecret       string        // empty or placeholder => fallback-only mode
	OracleSessionToken string        // user session token for the primary backend
	OracleTimeout      time.Duration // per-request timeout for the primary client

	// Oracle (fallback probe)
	ProbeBaseURL  string        // public profile surface, ex: "https://t.me"
	ProbeTimeout  time.Duration // per-probe timeout
	ProbeFailOpen bool          // probe transport failure counts as Available

	// Resolution engine governors
	CacheMaxAge    time.Duration // cached verdicts older than this are ignored
	PacingDelay    time.Duration // wait after every candidate
	BatchSize      int           // oracle calls per batch window
	BatchWindow    time.Duration // batch faster than this triggers a rest
	BatchRest      time.Duration // rest after a too-fast batch
	ErrorThreshold int           // consecutive failures before the long rest
	ErrorRest      time.Duration // rest after the threshold
	ErrorCooldown  time.Duration // wait after a sub-threshold failure

	// Stores
	SQLitePath       string        // path to the sqlite database file
	HistoryRetention time.Duration // history rows older than this are pruned, 0 keeps forever
	HistorySweep     time.Duration // interval between retention sweeps

	// Redis
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between connect retries
	RedisPingTimeout    time.Duration // timeout per ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	// HTTP surface
	RateLimitBurst  int  // token bucket size for /api/suggest
	RateLimitPerMin int  // bucket refill per client IP per minute
	TrustProxy      bool // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("HF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HF_PRETTY_LOG", false),

		// Generation tables
		TablesFile: getenv("HF_TABLES_FILE", ""), // optional, empty = built-in tables

		// Oracle
		OracleBaseURL:      getenv("HF_ORACLE_BASE_URL", ""),
		OracleCredentialID: getenv("HF_ORACLE_CREDENTIAL_ID", ""),
		OracleSecret:       getenv("HF_ORACLE_CREDENTIAL_SECRET", ""),
		OracleSessionToken: getenv("HF_ORACLE_SESSION_TOKEN", ""),
		OracleTimeout:      mustDuration("HF_ORACLE_TIMEOUT", 10*time.Second),
		ProbeBaseURL:       requireEnv("HF_PROBE_BASE_URL"),
		ProbeTimeout:       mustDuration("HF_PROBE_TIMEOUT", 5*time.Second),
		ProbeFailOpen:      mustBool("HF_PROBE_FAIL_OPEN", true),

		// Engine governors
		CacheMaxAge:    time.Duration(getenvInt("HF_CACHE_MAX_AGE_HOURS", 24)) * time.Hour,
		PacingDelay:    time.Duration(getenvInt("HF_PACING_DELAY_MS", 2000)) * time.Millisecond,
		BatchSize:      getenvInt("HF_BATCH_SIZE", 50),
		BatchWindow:    time.Duration(getenvInt("HF_BATCH_WINDOW_SECS", 120)) * time.Second,
		BatchRest:      time.Duration(getenvInt("HF_BATCH_REST_SECS", 60)) * time.Second,
		ErrorThreshold: getenvInt("HF_ERROR_THRESHOLD", 5),
		ErrorRest:      time.Duration(getenvInt("HF_ERROR_REST_SECS", 120)) * time.Second,
		ErrorCooldown:  time.Duration(getenvInt("HF_ERROR_COOLDOWN_SECS", 5)) * time.Second,

		// Stores
		SQLitePath:       getenv("HF_SQLITE_PATH", "handleforge.db"),
		HistoryRetention: time.Duration(getenvInt("HF_HISTORY_RETENTION_DAYS", 90)) * 24 * time.Hour,
		HistorySweep:     mustDuration("HF_HISTORY_SWEEP_INTERVAL", 6*time.Hour),

		// Redis settings
		RedisAddr:           requireEnv("HF_REDIS_ADDR"),
		RedisUser:           getenv("HF_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("HF_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("HF_REDIS_DB", 0),
		RedisDT:             mustDuration("HF_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("HF_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("HF_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("HF_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("HF_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("HF_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("HF_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("HF_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("HF_REDIS_WARN_THRESHOLD", 3),

		// HTTP surface
		RateLimitBurst:  getenvInt("HF_RATE_LIMIT_BURST", 3),
		RateLimitPerMin: getenvInt("HF_RATE_LIMIT_PER_MIN", 2),
		TrustProxy:      mustBool("HF_TRUST_PROXY", false),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.OracleSecret != "" {
			cfgCopy.OracleSecret = "***REDACTED***"
		}
		if cfgCopy.OracleSessionToken != "" {
			cfgCopy.OracleSessionToken = "***REDACTED***"
		}
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// PrimaryConfigured reports whether the authenticated oracle backend has real
// credentials. Placeholder values left in an example env file do not count.
func (c *Config) PrimaryConfigured() bool {
	for _, v := range []string{c.OracleBaseURL, c.OracleCredentialID, c.OracleSecret, c.OracleSessionToken} {
		if v == "" || v == credentialPlaceholder {
			return false
		}
	}
	return true
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
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
