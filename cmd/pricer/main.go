package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	repository "github.com/apcaballes87/cake-genie/internal/database/postgres"
	"github.com/apcaballes87/cake-genie/internal/worker"
	"github.com/apcaballes87/cake-genie/pkg/postgres"
)

func main() {
	v, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %s", err.Error())
	}

	cfg, err := config.ParseConfig(v)
	if err != nil {
		logrus.Fatalf("error parsing config: %s", err.Error())
	}

	logrus.SetFormatter(new(logrus.JSONFormatter))

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("failed to initialize db: %s", err.Error())
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
		<-quit
		cancel()
	}()

	brokers := cfg.Kafka.Brokers
	if env := config.GetEnv("KAFKA_BROKERS", ""); env != "" {
		brokers = []string{env}
	}
	topic := config.GetEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	groupID := config.GetEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	pricingWorker := worker.NewPricingWorker(repository.NewEstimateRepository(db), 8*time.Second)
	pricingWorker.Start(ctx, brokers, topic, groupID)
}
