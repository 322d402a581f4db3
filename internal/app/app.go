package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ndelvaux/handleforge/internal/config"
	"github.com/ndelvaux/handleforge/internal/gen"
	"github.com/ndelvaux/handleforge/internal/httpserver"
	"github.com/ndelvaux/handleforge/internal/httpserver/deps"
	"github.com/ndelvaux/handleforge/internal/logger"
	"github.com/ndelvaux/handleforge/internal/oracle"
	"github.com/ndelvaux/handleforge/internal/redis"
	"github.com/ndelvaux/handleforge/internal/resolve"
	"github.com/ndelvaux/handleforge/internal/scheduler"
	redisstore "github.com/ndelvaux/handleforge/internal/store/redis"
	sqlitestore "github.com/ndelvaux/handleforge/internal/store/sqlite"
	"github.com/ndelvaux/handleforge/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	store       *sqlitestore.Store
	retention   *scheduler.HistoryRetention
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Generation tables are static configuration: a broken override file is
	// a startup failure, not something to limp along with.
	tables, err := gen.LoadTables(cfg.TablesFile)
	if err != nil {
		loggerClient.Errorf("Failed to load generation tables: %v", err)
		os.Exit(1)
	}
	generator := gen.NewGenerator(tables)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	cache := redisstore.NewCache(redisClient)

	store, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		loggerClient.Errorf("Failed to open sqlite store at %s: %v", cfg.SQLitePath, err)
		os.Exit(1)
	}
	loggerClient.Info("stores initialized",
		logger.String("sqlite", cfg.SQLitePath),
		logger.String("redis", cfg.RedisAddr))

	// Oracle backends. The primary needs real credentials; the prober only
	// needs outbound reachability. Backend-disable state is shared by every
	// resolution run in the process.
	state := oracle.NewState()
	var primary oracle.Checker
	if cfg.PrimaryConfigured() {
		primary = oracle.NewPrimary(oracle.PrimaryConfig{
			BaseURL:      cfg.OracleBaseURL,
			CredentialID: cfg.OracleCredentialID,
			Secret:       cfg.OracleSecret,
			SessionToken: cfg.OracleSessionToken,
			Timeout:      cfg.OracleTimeout,
		})
	}
	fallback := oracle.NewProber(oracle.ProberConfig{
		BaseURL:  cfg.ProbeBaseURL,
		Timeout:  cfg.ProbeTimeout,
		FailOpen: cfg.ProbeFailOpen,
	})
	adapter := oracle.NewAdapter(primary, fallback, state, loggerClient)

	engine := resolve.NewEngine(adapter, cache, resolve.Config{
		CacheMaxAge:    cfg.CacheMaxAge,
		PacingDelay:    cfg.PacingDelay,
		BatchSize:      cfg.BatchSize,
		BatchWindow:    cfg.BatchWindow,
		BatchRest:      cfg.BatchRest,
		ErrorThreshold: cfg.ErrorThreshold,
		ErrorRest:      cfg.ErrorRest,
		ErrorCooldown:  cfg.ErrorCooldown,
	}, loggerClient)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		Generator:       generator,
		Engine:          engine,
		Adapter:         adapter,
		Cache:           cache,
		Store:           store,
		DefaultLimit:    10,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		TrustProxy:      cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	// Zero retention means keep history forever: no sweeper at all.
	var retention *scheduler.HistoryRetention
	if cfg.HistoryRetention > 0 {
		retention = scheduler.NewHistoryRetention(store, loggerClient, cfg.HistorySweep, cfg.HistoryRetention)
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		store:       store,
		retention:   retention,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting handleforge v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("handleforge %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.retention != nil {
		if err := a.retention.Start(ctx); err != nil {
			a.logger.Warnf("failed to start history retention sweeper: %v", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.retention != nil {
		a.retention.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warnf("failed to close sqlite store: %v", err)
		}
	}

	a.logger.Info("✅ handleforge stopped cleanly")
	return nil
}
