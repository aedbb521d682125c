package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/birddog/teddy/internal/api"
	"github.com/birddog/teddy/internal/api/handlers"
	"github.com/birddog/teddy/internal/chat"
	"github.com/birddog/teddy/internal/insight"
	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/recommend"
	"github.com/birddog/teddy/internal/scheduler"
	"github.com/birddog/teddy/internal/scheduler/jobs"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/database"
	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

This command:
- Connects to the analytical warehouse and Redis
- Wires the configured LLM provider
- Starts the background scheduler
- Serves the HTTP and websocket API

Endpoints:
  GET    /health
  GET    /api/insights/property/{parcelID}
  GET    /api/search/properties
  GET    /api/recommendations/crops/{parcelID}
  POST   /api/chat/message
  GET    /api/chat/history/{conversationID}
  DELETE /api/chat/conversation/{conversationID}
  GET    /api/chat/ws

Example:
  go run ./cmd/teddy api
  go run ./cmd/teddy api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Teddy API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"provider": cfg.LLM.Provider,
	}).Info("Initializing API server")

	// 3. Connect to the warehouse
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to warehouse: %w", err)
	}
	defer db.Close()

	log.Info("Connected to warehouse")

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	var (
		cache   *redis.Cache
		limiter *redis.RateLimiter
	)
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "teddy")
		limiter = redis.NewRateLimiter(redisClient, "teddy")
		log.Info("Connected to Redis")
	} else {
		log.Warn("Redis disabled, running without cache and rate limiting")
	}

	// 5. Create the LLM provider
	httpClient := httputil.New(cfg, log)
	provider, err := llm.NewFromConfig(cmd.Context(), cfg, log, httpClient)
	if err != nil {
		return fmt.Errorf("create llm provider: %w", err)
	}
	log.WithFields(map[string]interface{}{"provider": provider.Name()}).Info("LLM provider ready")

	// 6. Create the warehouse adapter and services
	adapter := warehouse.NewAdapter(db.Pool, log)

	insightSvc := insight.NewService(adapter, provider, cfg, log)
	recommendSvc := recommend.NewService(adapter, provider, cfg, log)

	store := chat.NewStore(30*time.Minute, 0)
	chatSvc := chat.NewService(provider, adapter, cache, store, cfg, log)

	// 7. Start the scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewConversationCleanupJob(store, log)); err != nil {
		return fmt.Errorf("register cleanup job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 8. Create handlers and router
	healthHandler := handlers.NewHealthHandler(db, redisClient, log)
	insightHandler := handlers.NewInsightHandler(insightSvc, cache, cfg, log)
	searchHandler := handlers.NewSearchHandler(adapter, log)
	recommendHandler := handlers.NewRecommendHandler(recommendSvc, cache, log)
	chatHandler := handlers.NewChatHandler(chatSvc, log)

	router := api.NewRouter(healthHandler, insightHandler, searchHandler, recommendHandler, chatHandler, limiter, cfg, log)

	// 9. Start server with graceful shutdown
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET    /health")
	fmt.Println("  GET    /api/insights/property/{parcelID}")
	fmt.Println("  GET    /api/search/properties")
	fmt.Println("  GET    /api/recommendations/crops/{parcelID}")
	fmt.Println("  POST   /api/chat/message")
	fmt.Println("  GET    /api/chat/ws")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
