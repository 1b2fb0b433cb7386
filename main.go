package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookbook/config"
	"cookbook/db"
	"cookbook/graph"
	"cookbook/middleware"
	"cookbook/ratelim"
	"cookbook/recipes"
	"cookbook/routes"
	"cookbook/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Set up all routes and middleware layers
func setupRouter(cfg *config.Config, log *zap.Logger, gql http.Handler, rateLimiter *ratelim.RateLimiter, store routes.Pinger) http.Handler {
	router := httprouter.New()

	routes.AddHealthRoutes(router, store)
	routes.AddGraphQLRoutes(router, gql, rateLimiter)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	return middleware.RequestID(
		middleware.Logging(log)(
			middleware.Recover(log)(
				middleware.SecurityHeaders(c.Handler(router)))))
}

func newLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) (ratelim.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		local := ratelim.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		local.StartJanitor(ctx, 2*time.Minute)
		return local, func() {}, nil
	}

	rdb, err := ratelim.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("rate limiting through redis", zap.String("addr", rdb.Options().Addr))
	return ratelim.NewRedisLimiter(rdb, cfg.RateLimitBurst, time.Second), func() { _ = rdb.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store  db.RecipeStore
		pinger routes.Pinger
		handle *db.Mongo
	)
	switch cfg.Store {
	case config.StoreMemory:
		store = db.NewMemoryRecipeStore()
		log.Warn("using in-memory recipe store, data is lost on exit")
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		handle, err = db.Open(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		cancel()
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}

		mongoStore := db.NewMongoRecipeStore(handle.Recipes())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			_ = handle.Close(context.Background())
			log.Fatal("failed to create recipe indexes", zap.Error(err))
		}
		store, pinger = mongoStore, handle
		log.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to set up rate limiter", zap.Error(err))
	}
	defer closeLimiter()

	svc := recipes.NewService(store, log.Named("recipes"))
	schema, err := graph.NewSchema(svc, log.Named("graphql"))
	if err != nil {
		log.Fatal("invalid GraphQL schema", zap.Error(err))
	}

	handler := setupRouter(cfg, log, graph.NewHandler(schema, log.Named("graphql")),
		ratelim.NewRateLimiter(limiter, log.Named("ratelim")), pinger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("GraphQL server ready", zap.String("addr", addr), zap.String("path", "/graphql"))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
	case <-ctx.Done():
		log.Info("shutdown signal received, shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := handle.Close(shutdownCtx); err != nil {
		log.Error("failed to close MongoDB connection", zap.Error(err))
	}

	log.Info("server stopped cleanly")
}
