package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"license-plate-service/internal/adapters/primary/http/handlers"
	"license-plate-service/internal/adapters/primary/http/middleware"
	"license-plate-service/internal/adapters/secondary/kserve"
	"license-plate-service/internal/adapters/secondary/modelendpoint"
	"license-plate-service/internal/adapters/secondary/postgres"
	"license-plate-service/internal/adapters/secondary/s3"
	"license-plate-service/internal/adapters/secondary/video"
	"license-plate-service/internal/config"
	output "license-plate-service/internal/core/ports/output"
	"license-plate-service/internal/core/services"
	"license-plate-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary adapters
	jobRepo := postgres.NewJobRepository(pool)
	resultRepo := postgres.NewInferenceResultRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	modelRepo := postgres.NewModelRepository(pool)
	regRepo := postgres.NewModelRegistrationRepository(pool)
	transitions := postgres.NewJobTransitions(pool)

	store, err := s3.NewArtifactStore(context.Background(), cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint)
	if err != nil {
		log.Fatalf("create artifact store: %v", err)
	}

	processor := video.NewVideoProcessor()
	encoder := video.NewDeliveryEncoder(cfg.Pipeline.FFmpegPath, cfg.Pipeline.FFprobePath)
	endpointClient := modelendpoint.NewClient(cfg.ModelEndpoint.DetectURL, cfg.ModelEndpoint.RecognizeURL, cfg.ModelEndpoint.Timeout)

	// KServe deployer (optional, based on config)
	var deployer output.EndpointDeployer
	deployer, err = kserve.NewEndpointDeployer(&cfg.Kubernetes, cfg.Kubernetes.StorageURI)
	if err != nil {
		log.Warnf("KServe deployer init failed (continuing without model registration): %v", err)
		deployer = nil
	} else if cfg.Kubernetes.Enabled {
		log.Info("KServe deployer initialized")
	} else {
		log.Info("KServe integration disabled")
	}

	// Worker pool and core services
	workerPool := worker.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, cfg.Workers.StartedTimeout)

	jobSvc := services.NewJobService(jobRepo, resultRepo, userRepo, transitions, workerPool)
	workerPool.Bind(jobSvc)

	pipelineSvc := services.NewPipelineService(jobSvc, processor, encoder, endpointClient, endpointClient, store, services.PipelineConfig{
		DetectionConfidence:   cfg.Pipeline.DetectionConfidence,
		RecognitionConfidence: cfg.Pipeline.RecognitionConfidence,
		IoUThreshold:          cfg.Pipeline.IoUThreshold,
		MinTrackDuration:      time.Duration(cfg.Pipeline.MinTrackSeconds * float64(time.Second)),
		BandEnabled:           cfg.Pipeline.BandEnabled,
		BandMin:               cfg.Pipeline.BandMin,
		BandMax:               cfg.Pipeline.BandMax,
		TempDir:               cfg.Pipeline.TempDir,
		VideoPrefix:           cfg.Storage.VideoPrefix,
	})
	registrySvc := services.NewRegistryService(jobSvc, modelRepo, regRepo, store, deployer, cfg.Pipeline.TempDir)
	deliverySvc := services.NewDeliveryService(resultRepo, store)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if err := jobSvc.EnsureBootstrapUser(rootCtx); err != nil {
		log.Fatalf("ensure bootstrap user: %v", err)
	}
	workerPool.Start(rootCtx)

	// Primary adapter
	h := handlers.New(pipelineSvc, jobSvc, registrySvc, deliverySvc, pool.Ping)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	router.GET("/healthz", h.Health)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	// in-flight jobs finish before the process exits
	workerPool.Stop()
	rootCancel()

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
