package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/datalens/internal/application"
	appdatasets "github.com/bryanwahyu/datalens/internal/application/datasets"
	appinsights "github.com/bryanwahyu/datalens/internal/application/insights"
	"github.com/bryanwahyu/datalens/internal/config"
	domai "github.com/bryanwahyu/datalens/internal/domain/ai"
	"github.com/bryanwahyu/datalens/internal/domain/dataset"
	"github.com/bryanwahyu/datalens/internal/domain/ingesterrors"
	"github.com/bryanwahyu/datalens/internal/domain/insight"
	aiclient "github.com/bryanwahyu/datalens/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/datalens/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/datalens/internal/infra/db/postgres"
	"github.com/bryanwahyu/datalens/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/datalens/internal/infra/storage"
	"github.com/bryanwahyu/datalens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql atau postgres, sesuai config)
	var (
		datasetRepo dataset.Repository
		insightRepo insight.Repository
		errorRepo   ingesterrors.Repository
		dbChecker   middleware.HealthChecker
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		datasetRepo = pgp.NewDatasetRepository(db)
		insightRepo = pgp.NewInsightRepository(db)
		errorRepo = pgp.NewIngestErrorRepository(db)
		dbChecker = &middleware.DatabaseHealthChecker{DB: db}
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		datasetRepo = mysqlp.NewDatasetRepository(db)
		insightRepo = mysqlp.NewInsightRepository(db)
		errorRepo = mysqlp.NewIngestErrorRepository(db)
		dbChecker = &middleware.DatabaseHealthChecker{DB: db}
	default:
		log.Fatalf("unsupported database driver: %s", cfg.Database.Driver)
	}

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init AI client; tanpa API key jatuh ke planner lokal
	var client domai.Client
	if cfg.OpenAI.APIKey != "" {
		client = aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Println("no openai api key configured, using local planner")
	}

	// init services
	datasetsSvc := &appdatasets.Service{
		Repo:    datasetRepo,
		Errors:  errorRepo,
		Objects: store,
		Clock:   application.SystemClock{},
	}
	insightsSvc := &appinsights.Service{
		Repo:     insightRepo,
		Datasets: datasetsSvc,
		Client:   client,
		Clock:    application.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"database": dbChecker,
	}

	// init router + middleware chain
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuthIfConfigured(cfg.Auth.APIKeys))
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(datasetsSvc, insightsSvc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
