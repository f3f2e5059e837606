package cmd

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tax-estimator/config"
	"tax-estimator/logger"
	"tax-estimator/repository"
	"tax-estimator/service"
)

type closer func() error

// buildService assembles the history store, optional cache and TaxService
// described by cfg. The returned cleanup closes whatever was opened.
func buildService(ctx context.Context, cfg config.Config) (*service.TaxService, func(), error) {
	var closers []closer
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Log.Warn("error closing resource", zap.Error(err))
			}
		}
	}

	schedule, err := service.LookupSchedule(cfg.Tax.Schedule)
	if err != nil {
		return nil, cleanup, err
	}

	var history repository.HistoryRepository
	switch cfg.History.Backend {
	case "sqlite":
		h, err := repository.OpenSQLiteHistory(cfg.History.Path)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, h.Close)
		history = h
	default:
		history = repository.NewMemoryHistory(service.MaxHistoryLimit)
	}

	var cache repository.CacheRepository
	switch cfg.Cache.Backend {
	case "redis":
		rc := repository.NewRedisCache(cfg.Cache.RedisAddr)
		closers = append(closers, rc.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			cleanup()
			return nil, func() {}, errors.Wrapf(err, "redis at %s", cfg.Cache.RedisAddr)
		}
		cache = rc
	case "memory":
		cache = repository.NewMemoryCache()
	}

	svc := service.NewTaxService(schedule, history, cache)
	svc.SetCacheTTL(cfg.Cache.TTL.Duration)

	logger.Log.Debug("service ready",
		zap.String("schedule", schedule.Name),
		zap.String("history", cfg.History.Backend),
		zap.String("cache", cfg.Cache.Backend),
	)
	return svc, cleanup, nil
}
