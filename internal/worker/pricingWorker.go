package worker

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	repository "github.com/apcaballes87/cake-genie/internal/database/postgres"
	kafkaevents "github.com/apcaballes87/cake-genie/internal/pkg/kafka"
)

// PricingWorker stands in for the out-of-band AI pricing process: it consumes
// upload events and writes a mocked estimate to the row the poller watches.
type PricingWorker struct {
	repo  repository.EstimateRepository
	delay time.Duration
}

func NewPricingWorker(repo repository.EstimateRepository, delay time.Duration) *PricingWorker {
	return &PricingWorker{
		repo:  repo,
		delay: delay,
	}
}

func (w *PricingWorker) Start(ctx context.Context, brokers []string, topic, groupID string) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	logrus.Info("Pricing worker started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logrus.Info("Pricing worker stopped")
				return
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		var event kafkaevents.UploadRegistered
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logrus.Errorf("Failed to parse upload event: %v", err)
			continue
		}

		go w.price(ctx, event)
	}
}

// price waits out the mock inference delay, then fills in the pricing
// columns for the upload.
func (w *PricingWorker) price(ctx context.Context, event kafkaevents.UploadRegistered) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.delay):
	}

	estimate := mockEstimate(event.ID)
	err := w.repo.SetPricing(ctx, event.ID, estimate.priceAddon, estimate.infoAddon, estimate.cakeType, estimate.thickness)
	if err != nil {
		logrus.Errorf("Failed to write pricing for %s: %v", event.ID, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"id":         event.ID,
		"priceaddon": estimate.priceAddon,
	}).Info("Pricing written")
}

type mockedEstimate struct {
	priceAddon float64
	infoAddon  string
	cakeType   string
	thickness  string
}

// mockEstimate derives a stable pseudo-estimate from the upload id so
// repeated runs price the same upload identically.
func mockEstimate(id string) mockedEstimate {
	h := fnv.New32a()
	h.Write([]byte(id))
	n := h.Sum32()

	prices := []float64{100, 150, 200, 250, 300}
	types := []string{"round", "square", "sheet", "tiered"}
	thicknesses := []string{"2in", "3in", "4in"}

	return mockedEstimate{
		priceAddon: prices[n%uint32(len(prices))],
		infoAddon:  "Custom design detected on uploaded photo",
		cakeType:   types[(n>>3)%uint32(len(types))],
		thickness:  thicknesses[(n>>5)%uint32(len(thicknesses))],
	}
}
