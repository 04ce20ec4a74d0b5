package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"educreate/internal/auth"
	"educreate/internal/cache"
	"educreate/internal/config"
	"educreate/internal/domain/repositories"
	"educreate/internal/foldertypes"
	"educreate/internal/handler"
	"educreate/internal/middleware"
	"educreate/internal/repository/memory"
	"educreate/internal/repository/postgres"
	authsvc "educreate/internal/service/auth"
	"educreate/internal/service/folders"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireAuth(); err != nil {
		log.Fatalf("Invalid auth configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogFilePrefix, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtVerifier, err := newVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	healthChecks := map[string]handler.HealthCheck{}

	// Storage
	var (
		folderRepo repositories.FolderRepository
		txManager  repositories.TransactionManager
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		folderRepo = memory.NewFolderRepository(store)
		txManager = memory.NewTransactionManager(store)
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		logger.Info("database connected", "folders_table", tables.Folders)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		folderRepo = postgres.NewFolderRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)
		healthChecks["database"] = func(ctx context.Context) error { return pool.Ping(ctx) }
	}

	// Tree cache
	var treeCache folders.TreeCache
	if cfg.RedisURL != "" {
		client, closeRedis, err := cache.NewRedisClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer closeRedis()
		treeCache = cache.NewRedisTreeCache(client, cfg.TreeCacheTTL, logger)
		healthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("tree cache enabled", "ttl", cfg.TreeCacheTTL)
	}

	typeRegistry, err := foldertypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize folder type registry: %v", err)
	}

	// Services
	authorizer := authsvc.NewOwnerBasedAuthorizer(folderRepo)
	folderService := folders.NewService(folderRepo, txManager, authorizer, typeRegistry, treeCache, logger)

	// Handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	hierarchyHandler := handler.NewHierarchyHandler(folderService, logger)
	typesHandler := handler.NewFolderTypesHandler(typeRegistry)
	healthHandler := handler.NewHealthHandler(healthChecks, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	handler.RegisterFolderRoutes(mux, folderHandler, hierarchyHandler, typesHandler)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newVerifier prefers the JWKS endpoint and falls back to the shared secret.
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.AuthJWKSURL != "" {
		return auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	}
	return auth.NewSecretVerifier(cfg.AuthJWTSecret, logger)
}
