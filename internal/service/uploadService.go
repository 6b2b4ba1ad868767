package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	repository "github.com/apcaballes87/cake-genie/internal/database/postgres"
	"github.com/apcaballes87/cake-genie/internal/entity"
	"github.com/apcaballes87/cake-genie/internal/pkg/codec"
	"github.com/apcaballes87/cake-genie/internal/pkg/compressor"
	"github.com/apcaballes87/cake-genie/internal/pkg/kafka"
	"github.com/apcaballes87/cake-genie/internal/pkg/storage"
)

type uploadService struct {
	cfg        *config.Config
	compressor compressor.Compressor
	storage    storage.ObjectStorage
	repo       repository.EstimateRepository
	producer   kafka.Producer
	pricing    PricingService
	tracker    *StateTracker

	mu         sync.Mutex
	inFlight   bool
	cancelPrev context.CancelFunc
}

// NewUploadService wires the upload orchestrator. store may be nil when
// object storage configuration is missing; submissions then fail with a
// configuration error instead of crashing at startup.
func NewUploadService(
	cfg *config.Config,
	comp compressor.Compressor,
	store storage.ObjectStorage,
	repo repository.EstimateRepository,
	producer kafka.Producer,
	pricing PricingService,
	tracker *StateTracker,
) UploadService {
	return &uploadService{
		cfg:        cfg,
		compressor: comp,
		storage:    store,
		repo:       repo,
		producer:   producer,
		pricing:    pricing,
		tracker:    tracker,
	}
}

// Submit runs validate → compress → store → register → finalize for one
// upload attempt. At most one attempt runs at a time: a submission arriving
// while another is in flight is dropped, not queued. The attempt context is
// checked at every step boundary so a cancelled attempt abandons its
// remaining side effects silently.
func (s *uploadService) Submit(ctx context.Context, src *entity.SourceFile) (*entity.UploadRecord, *entity.CompressionResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		logrus.Warn("Upload dropped: another upload is already in flight")
		return nil, nil, entity.ErrUploadInFlight
	}
	s.inFlight = true
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	attemptCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	gen := s.tracker.NextGeneration()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if err := s.validate(src); err != nil {
		return nil, nil, s.fail(gen, err)
	}
	s.tracker.SetState(gen, entity.StateUploading)

	comp := s.compressor.Compress(src)
	if attemptCtx.Err() != nil {
		return nil, nil, attemptCtx.Err()
	}

	if s.storage == nil {
		return nil, nil, s.fail(gen, entity.ErrConfiguration)
	}

	key := storage.BuildKey(comp.Ext)
	contentType := src.MediaType
	if !comp.Skipped {
		contentType = "image/jpeg"
	}
	publicURL, err := s.storage.Put(attemptCtx, key, comp.Data, contentType)
	if err != nil {
		return nil, nil, s.fail(gen, err)
	}
	if attemptCtx.Err() != nil {
		return nil, nil, attemptCtx.Err()
	}

	rec := &entity.UploadRecord{
		ID:               uuid.NewString(),
		StoragePath:      key,
		PublicURL:        publicURL,
		OriginalFilename: src.Filename,
	}
	if err := s.repo.Insert(attemptCtx, rec); err != nil {
		return nil, nil, s.fail(gen, err)
	}
	if attemptCtx.Err() != nil {
		return nil, nil, attemptCtx.Err()
	}

	// Pricing still resolves without the event (it just times out to the
	// manual-refresh path), so a producer failure does not fail the upload.
	if s.producer != nil {
		event := kafka.UploadRegistered{
			ID:        rec.ID,
			ImageURL:  rec.PublicURL,
			Filename:  rec.OriginalFilename,
			Timestamp: time.Now(),
		}
		if err := s.producer.SendMessage(attemptCtx, event); err != nil {
			logrus.Warnf("Failed to publish upload event for %s: %v", rec.ID, err)
		}
	}

	s.tracker.SetRecord(gen, rec)
	s.tracker.SetState(gen, entity.StateProcessing)
	s.pricing.BeginPolling(gen, rec.ID)

	logrus.WithFields(logrus.Fields{
		"id":    rec.ID,
		"key":   key,
		"ratio": comp.Ratio,
	}).Info("Upload registered")

	return rec, comp, nil
}

func (s *uploadService) validate(src *entity.SourceFile) error {
	if src == nil || len(src.Data) == 0 {
		return entity.ErrNoFileProvided
	}
	if !strings.HasPrefix(src.MediaType, "image/") {
		return entity.ErrNotAnImage
	}
	if src.Size > s.cfg.Upload.MaxFileSize {
		return entity.ErrFileTooLarge
	}

	width, height, err := codec.Probe(src.Data)
	if err != nil {
		return err
	}
	if width < s.cfg.Upload.MinDimension || height < s.cfg.Upload.MinDimension {
		return entity.ErrImageTooSmall
	}
	return nil
}

// fail classifies the error, surfaces it as the error state and schedules
// the generation-guarded auto-clear back to idle.
func (s *uploadService) fail(gen uint64, err error) error {
	kind := entity.ClassifyError(err)
	logrus.WithField("kind", kind).Errorf("Upload failed: %v", err)
	s.tracker.SetError(gen, kind, err.Error())
	time.AfterFunc(s.cfg.Upload.ErrorClearDelay, func() {
		s.tracker.ClearError(gen)
	})
	return err
}

func (s *uploadService) State() entity.StateSnapshot {
	return s.tracker.Snapshot()
}

func (s *uploadService) Dismiss() {
	s.tracker.ClearError(s.tracker.Snapshot().Generation)
}
