package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paylater/internal/afterpay"
	"paylater/internal/cache"
	"paylater/internal/models"
	"paylater/internal/repository"
)

// ConfigFetcherFactory returns the provider-configuration fetch for a
// payment method's merchant account.
type ConfigFetcherFactory func(pm *models.PaymentMethod) cache.FetchFunc

// Scheduler keeps the provider configuration cache warm so eligibility
// checks hit the cache instead of the provider.
type Scheduler struct {
	cron     *cron.Cron
	methods  *repository.PaymentMethodRepository
	cache    *cache.ConfigCache
	fetchers ConfigFetcherFactory
	logger   *zap.Logger
}

func New(methods *repository.PaymentMethodRepository, configCache *cache.ConfigCache, fetchers ConfigFetcherFactory, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		methods:  methods,
		cache:    configCache,
		fetchers: fetchers,
		logger:   logger,
	}
}

// Start schedules the daily cache refresh and runs one warm-up pass
// immediately in the background.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("@daily", s.refreshAll)
	if err != nil {
		s.logger.Error("failed to schedule configuration refresh", zap.Error(err))
		return
	}
	s.cron.Start()
	go s.refreshAll()
}

// Stop stops the scheduler and returns a context done when running jobs
// finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) refreshAll() {
	methods, err := s.methods.FindActive()
	if err != nil {
		s.logger.Error("failed to load payment methods for cache refresh", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for i := range methods {
		pm := &methods[i]
		var cfg *afterpay.Configuration
		if cfg = s.cache.Refresh(ctx, pm.MerchantID, s.fetchers(pm)); cfg == nil {
			s.logger.Warn("provider configuration refresh failed",
				zap.String("merchant", pm.MerchantID))
			continue
		}
		s.logger.Info("provider configuration refreshed",
			zap.String("merchant", pm.MerchantID))
	}
}
