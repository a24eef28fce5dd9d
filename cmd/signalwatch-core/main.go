package main

// @title           SignalWatch Core API
// @version         1.0
// @description     UK Companies House investigation engine. Scans company filings for discrepancies against the structured register and maps director networks.

// @contact.name   SignalWatch OSS
// @contact.url    https://github.com/signal-watch/signalwatch-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/ai"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/auth"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/companieshouse"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/githubstore"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/memory"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/postgres"
	redisadapter "github.com/signal-watch/signalwatch-core/internal/adapters/driven/redis"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driven/resultcache"
	"github.com/signal-watch/signalwatch-core/internal/adapters/driving/http"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
	"github.com/signal-watch/signalwatch-core/internal/core/services"
	"github.com/signal-watch/signalwatch-core/internal/extract"
	"github.com/signal-watch/signalwatch-core/internal/worker"
)

var version = "dev"

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("signalwatch-core %s starting in %s mode", version, mode)

	// Configuration from environment
	apiKey := getEnv("CH_API_KEY", "")
	if apiKey == "" {
		log.Fatal("CH_API_KEY is required")
	}
	port := getEnvInt("PORT", 8080)
	redisURL := getEnv("REDIS_URL", "")
	databaseURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "development-secret-change-in-production")
	operatorHash := getEnv("OPERATOR_PASSWORD_HASH", "")

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Registry client =====
	registry, err := companieshouse.NewClient(companieshouse.ClientConfig{
		APIKey:          apiKey,
		BaseURL:         getEnv("CH_BASE_URL", ""),
		DocumentBaseURL: getEnv("CH_DOCUMENT_BASE_URL", ""),
		Logger:          slog.Default(),
	})
	if err != nil {
		log.Fatalf("Failed to create registry client: %v", err)
	}

	// ===== Remote result cache (optional, GitHub-backed) =====
	var cache driven.ResultCache
	githubToken := getEnv("GITHUB_TOKEN", "")
	githubRepo := getEnv("GITHUB_REPO", "")
	if githubToken != "" && githubRepo != "" {
		store, err := githubstore.NewStore(githubstore.StoreConfig{
			Token:  githubToken,
			Repo:   githubRepo,
			Branch: getEnv("GITHUB_BRANCH", ""),
			Logger: slog.Default(),
		})
		if err != nil {
			log.Fatalf("Failed to create github store: %v", err)
		}
		cache = resultcache.New(store, slog.Default())
		log.Printf("Using GitHub result cache (%s)", githubRepo)
	} else {
		log.Println("Remote result cache disabled (GITHUB_TOKEN/GITHUB_REPO not set)")
	}

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== PostgreSQL (optional) =====
	var db *postgres.DB
	if databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		dbConfig := postgres.DefaultConfig(databaseURL)
		dbConfig.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", dbConfig.MaxOpenConns)
		dbConfig.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", dbConfig.MaxIdleConns)
		db, err = postgres.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")
	}

	// ===== Result store (Redis, then PostgreSQL, then in-memory) =====
	var resultStore driven.ResultStore
	switch {
	case redisClient != nil:
		resultStore = redisadapter.NewResultStore(redisClient)
		log.Println("Using Redis result store")
	case db != nil:
		resultStore = postgres.NewResultStore(db)
		log.Println("Using PostgreSQL result store")
	default:
		resultStore = memory.NewResultStore()
		log.Println("Using in-memory result store")
	}

	// ===== Task queue (Redis with in-memory fallback) =====
	var taskQueue driven.TaskQueue
	if redisClient != nil {
		taskQueue, err = redisadapter.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		log.Println("Using Redis task queue")
	} else {
		taskQueue = memory.NewQueue()
		log.Println("Using in-memory task queue")
	}
	defer taskQueue.Close()

	// ===== AI extractor (optional) =====
	aiExtractor, err := ai.NewExtractor(ai.Settings{
		Provider: ai.Provider(getEnv("AI_PROVIDER", defaultAIProvider())),
		APIKey:   getEnv("XAI_API_KEY", getEnv("AI_API_KEY", "")),
		Model:    getEnv("AI_MODEL", ""),
		BaseURL:  getEnv("AI_BASE_URL", ""),
	})
	if err != nil {
		log.Fatalf("Failed to create AI extractor: %v", err)
	}
	if aiExtractor != nil {
		log.Println("AI extraction backend configured")
	}

	// ===== Core services =====
	traverser := services.NewNetworkTraverser(services.NetworkTraverserConfig{
		Registry:     registry,
		Logger:       slog.Default(),
		MaxCompanies: getEnvInt("NETWORK_MAX_COMPANIES", 0),
	})

	scanService := services.NewScanOrchestrator(services.ScanOrchestratorConfig{
		Registry:         registry,
		Cache:            cache,
		PatternExtractor: extract.NewPatternExtractor(),
		AIExtractor:      aiExtractor,
		Traverser:        traverser,
		ResultStore:      resultStore,
		Queue:            taskQueue,
		Logger:           slog.Default(),
		Concurrency:      getEnvInt("SCAN_CONCURRENCY", 0),
	})

	// ===== Auth (optional) =====
	var authService driving.AuthService
	if operatorHash != "" {
		authService = services.NewAuthService(auth.NewAdapter(jwtSecret), operatorHash)
		log.Println("Operator authentication enabled")
	} else {
		log.Println("Operator authentication disabled (OPERATOR_PASSWORD_HASH not set)")
	}

	switch mode {
	case "api":
		runAPI(port, scanService, authService, taskQueue, db)

	case "worker":
		runWorkerMode(ctx, taskQueue, scanService, resultStore)

	case "all":
		go runWorkerMode(ctx, taskQueue, scanService, resultStore)
		runAPI(port, scanService, authService, taskQueue, db)

	default:
		log.Fatalf("Unknown mode: %s (use: api, worker, or all)", mode)
	}
}

// defaultAIProvider returns "grok" when an xAI key is present so the common
// case needs only XAI_API_KEY set.
func defaultAIProvider() string {
	if os.Getenv("XAI_API_KEY") != "" {
		return string(ai.ProviderGrok)
	}
	return ""
}

func runAPI(
	port int,
	scanService driving.ScanService,
	authService driving.AuthService,
	taskQueue driven.TaskQueue,
	db *postgres.DB,
) {
	cfg := http.Config{
		Host:           "0.0.0.0",
		Port:           port,
		Version:        version,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	var dbPinger http.Pinger
	if db != nil {
		dbPinger = db
	}

	server := http.NewServer(cfg, scanService, authService, taskQueue, dbPinger)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runWorkerMode starts the background scan worker.
func runWorkerMode(
	ctx context.Context,
	taskQueue driven.TaskQueue,
	scanService driving.ScanService,
	resultStore driven.ResultStore,
) {
	log.Println("Starting worker mode...")

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		ScanService:    scanService,
		ResultStore:    resultStore,
		Logger:         slog.Default(),
		Concurrency:    getEnvInt("WORKER_CONCURRENCY", 2),
		DequeueTimeout: getEnvInt("WORKER_DEQUEUE_TIMEOUT", 5),
	})

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker started, processing scan_batch tasks...")

	<-ctx.Done()

	log.Println("Stopping worker...")
	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(30 * time.Second):
		log.Println("Worker stop timed out")
	}
	log.Println("Worker stopped")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
