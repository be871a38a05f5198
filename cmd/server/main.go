/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the loan amortization API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config file (optional) and apply flag overrides
  2. Build the zap logger
  3. Initialize SQLite store
  4. Initialize response cache (memory or redis)
  5. Create API handler, rate limiter and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  --config   TOML or YAML config file
  --port     HTTP server port (default: 8080)
  --db       SQLite database path (default: loans.db)
             Use ":memory:" for in-memory database
  --cache    Cache backend: memory | redis
  --redis    Redis address for the redis cache
  --log-level debug | info | warn | error
  --dev      Human-readable development logs

  Flags that are set explicitly win over the config file.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Stop the rate limiter, close cache and database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server --db=./data/loans.db

  # Run with in-memory database and redis cache
  ./server --db=:memory: --cache=redis --redis=localhost:6379

  # Run from a config file on a different port
  ./server --config=loan.toml --port=3000

SEE ALSO:
  - config/config.go: Configuration schema
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/loan-engine/api"
	"github.com/warp/loan-engine/cache"
	"github.com/warp/loan-engine/config"
	"github.com/warp/loan-engine/logging"
	"github.com/warp/loan-engine/store/sqlite"
)

type flags struct {
	configPath string
	port       int
	dbPath     string
	cache      string
	redisAddr  string
	logLevel   string
	dev        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Loan amortization API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (.toml, .yaml, .yml)")
	cmd.Flags().IntVar(&f.port, "port", 8080, "HTTP server port")
	cmd.Flags().StringVar(&f.dbPath, "db", "loans.db", "SQLite database path")
	cmd.Flags().StringVar(&f.cache, "cache", config.CacheMemory, "cache backend (memory|redis)")
	cmd.Flags().StringVar(&f.redisAddr, "redis", "", "redis address for the redis cache backend")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&f.dev, "dev", false, "development logging")

	return cmd
}

// loadConfig reads the config file, then applies flags the user set.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("db") {
		cfg.Database.Path = f.dbPath
	}
	if changed("cache") {
		cfg.Cache.Backend = f.cache
	}
	if changed("redis") {
		cfg.Cache.RedisAddr = f.redisAddr
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("dev") {
		cfg.Log.Development = f.dev
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	// Initialize cache
	respCache, closeCache, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	handler := api.NewHandler(store, logger).WithCache(respCache, cfg.Cache.TTL.Duration)

	var limiter *api.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window.Duration)
		defer limiter.Stop()
	}

	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("db", cfg.Database.Path),
			zap.String("cache", cfg.Cache.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newCache returns the configured cache. An unreachable redis falls back to
// the in-memory cache.
func newCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (cache.Cache, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.CacheMemory:
		return cache.NewMemory(), noop, nil
	case config.CacheRedis:
		rdb := cache.NewRedis(cfg.RedisAddr)
		if err := rdb.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, using in-memory cache",
				zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rdb.Close()
			return cache.NewMemory(), noop, nil
		}
		return rdb, func() { rdb.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
