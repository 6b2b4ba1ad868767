package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apcaballes87/cake-genie/config"
	repository "github.com/apcaballes87/cake-genie/internal/database/postgres"
	redisdb "github.com/apcaballes87/cake-genie/internal/database/redis"
	"github.com/apcaballes87/cake-genie/internal/entity"
)

type pricingService struct {
	cfg     config.PricingConfig
	repo    repository.EstimateRepository
	cache   *redisdb.EstimateCache
	tracker *StateTracker
	rootCtx context.Context

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPricingService builds the poller. cache may be nil; reads then always go
// to the database. rootCtx bounds the lifetime of background polls, which
// outlive the HTTP request that started them.
func NewPricingService(
	rootCtx context.Context,
	cfg config.PricingConfig,
	repo repository.EstimateRepository,
	cache *redisdb.EstimateCache,
	tracker *StateTracker,
) PricingService {
	return &pricingService{
		cfg:     cfg,
		repo:    repo,
		cache:   cache,
		tracker: tracker,
		rootCtx: rootCtx,
	}
}

// BeginPolling starts the bounded retry loop for one upload. A newer call
// cancels the previous loop; reads within a loop are strictly sequential.
func (s *pricingService) BeginPolling(generation uint64, id string) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.rootCtx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.poll(ctx, generation, id)
}

func (s *pricingService) poll(ctx context.Context, generation uint64, id string) {
	delay := s.cfg.InitialDelay
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = s.cfg.PollInterval

		estimate, err := s.read(ctx, id)
		if err != nil {
			logrus.Warnf("Pricing read %d/%d for %s failed: %v", attempt, s.cfg.MaxAttempts, id, err)
			if attempt == s.cfg.MaxAttempts {
				s.finish(generation, &entity.PriceEstimate{
					ID:           id,
					IsError:      true,
					NeedsRefresh: true,
					Attempts:     attempt,
				})
				return
			}
			continue
		}

		if estimate != nil {
			estimate.Attempts = attempt
			s.cacheEstimate(ctx, estimate)
			s.finish(generation, estimate)
			return
		}

		if attempt == s.cfg.MaxAttempts {
			// Budget exhausted with pricing still absent: hand the user a
			// manual refresh instead of blocking forever.
			s.finish(generation, &entity.PriceEstimate{
				ID:           id,
				NeedsRefresh: true,
				Attempts:     attempt,
			})
			return
		}
	}
}

// Lookup is the read the transport layer serves: cache first, then database.
// Returns (nil, nil) while pricing is still absent.
func (s *pricingService) Lookup(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	return s.read(ctx, id)
}

// Refresh is the manual one-shot read offered once the bounded loop gave up.
// It goes straight to the database and never re-enters the loop.
func (s *pricingService) Refresh(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	estimate, err := s.readDB(ctx, id)
	if err != nil {
		return nil, err
	}
	if estimate == nil {
		return &entity.PriceEstimate{ID: id, NeedsRefresh: true}, nil
	}
	s.cacheEstimate(ctx, estimate)
	return estimate, nil
}

func (s *pricingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *pricingService) read(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	if s.cache != nil {
		cached, err := s.cache.GetEstimate(ctx, id)
		if err != nil {
			logrus.Debugf("Estimate cache read failed for %s: %v", id, err)
		} else if cached != nil && cached.HasRealData {
			return cached, nil
		}
	}
	return s.readDB(ctx, id)
}

func (s *pricingService) readDB(ctx context.Context, id string) (*entity.PriceEstimate, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.PriceAddon == nil {
		return nil, nil
	}

	return &entity.PriceEstimate{
		ID:          rec.ID,
		PriceAddon:  fmt.Sprintf("+%s", strconv.FormatFloat(*rec.PriceAddon, 'f', -1, 64)),
		InfoAddon:   rec.InfoAddon,
		CakeType:    rec.CakeType,
		Thickness:   rec.Thickness,
		HasRealData: true,
	}, nil
}

func (s *pricingService) cacheEstimate(ctx context.Context, estimate *entity.PriceEstimate) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetEstimate(ctx, estimate); err != nil {
		logrus.Debugf("Estimate cache write failed for %s: %v", estimate.ID, err)
	}
}

func (s *pricingService) finish(generation uint64, estimate *entity.PriceEstimate) {
	if !s.tracker.SetEstimate(generation, estimate) {
		logrus.Debugf("Discarding pricing result for %s from stale attempt", estimate.ID)
		return
	}
	logrus.WithFields(logrus.Fields{
		"id":            estimate.ID,
		"has_real_data": estimate.HasRealData,
		"attempts":      estimate.Attempts,
	}).Info("Pricing poll finished")
}
