// launching the server, DB, redis, kafka, object storage
package appserver

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	repository "github.com/apcaballes87/cake-genie/internal/database/postgres"
	redisdb "github.com/apcaballes87/cake-genie/internal/database/redis"
	"github.com/apcaballes87/cake-genie/internal/pkg/compressor"
	"github.com/apcaballes87/cake-genie/internal/pkg/kafka"
	"github.com/apcaballes87/cake-genie/internal/pkg/storage"
	"github.com/apcaballes87/cake-genie/internal/service"
	"github.com/apcaballes87/cake-genie/internal/transport"
	"github.com/apcaballes87/cake-genie/pkg/postgres"
	"github.com/apcaballes87/cake-genie/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("failed to initialize db: %s", err.Error())
	}
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("failed to run migrations: %s", err.Error())
	}

	redisClient := redis.NewRedisClient(&cfg.Redis)
	estimateCache := redisdb.NewEstimateCache(redisClient, cfg.Redis.EstimateTTL)

	// A misconfigured bucket must not keep the page from loading; uploads
	// surface a configuration error instead.
	objectStorage, err := storage.NewS3Storage(rootCtx, cfg.Storage)
	if err != nil {
		logrus.Errorf("object storage unavailable: %s", err.Error())
		objectStorage = nil
	}

	estimateRepo := repository.NewEstimateRepository(db)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	imageCompressor := compressor.NewCompressor(cfg.Compression)

	tracker := service.NewStateTracker()
	pricingService := service.NewPricingService(rootCtx, cfg.Pricing, estimateRepo, estimateCache, tracker)
	uploadService := service.NewUploadService(cfg, imageCompressor, objectStorage, estimateRepo, producer, pricingService, tracker)

	handler := transport.NewEstimateHandler(uploadService, pricingService, cfg.Upload.MaxFileSize)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handler, cfg.Server.Timeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	pricingService.Stop()
	rootCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
	if err := producer.Close(); err != nil {
		logrus.Errorf("error occured on closing kafka producer: %s", err.Error())
	}
	if err := db.Close(); err != nil {
		logrus.Errorf("error occured on db connection close: %s", err.Error())
	}
	if err := redisClient.Close(); err != nil {
		logrus.Errorf("error occured on redis connection close: %s", err.Error())
	}
}
