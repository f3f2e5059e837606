package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tax-estimator/domain"
	"tax-estimator/logger"
	"tax-estimator/repository"
)

type TaxService struct {
	schedule *Schedule
	repo     repository.HistoryRepository
	cache    repository.CacheRepository // nil disables caching
	cacheTTL time.Duration
	now      func() time.Time
}

// NewTaxService creates a TaxService over the given schedule. cache may be nil.
func NewTaxService(schedule *Schedule,
	repo repository.HistoryRepository,
	cache repository.CacheRepository,
) *TaxService {
	if schedule == nil {
		schedule = Simplified
	}
	return &TaxService{
		schedule: schedule,
		repo:     repo,
		cache:    cache,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// SetCacheTTL changes how long cached estimates live. Zero keeps them forever.
func (s *TaxService) SetCacheTTL(ttl time.Duration) { s.cacheTTL = ttl }

func (s *TaxService) Schedule() *Schedule { return s.schedule }

// Estimate validates and computes the breakdown for in, then records it in
// the history repository.
func (s *TaxService) Estimate(ctx context.Context, in domain.TaxInput) (domain.TaxResult, error) {
	in = normalize(in)
	log := logger.With(zap.String("mode", string(in.Mode)), zap.String("jurisdiction", in.Jurisdiction))

	key := s.cacheKey(in)
	result, hit := s.cached(ctx, key)
	if hit {
		log.Debug("estimate served from cache", zap.String("key", key))
	} else {
		var err error
		result, err = s.schedule.Estimate(in)
		if err != nil {
			log.Debug("estimate rejected", zap.Error(err))
			return domain.TaxResult{}, err
		}
		s.store(ctx, key, result, log)
	}

	// history is best effort
	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Input:     in,
		Result:    result,
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		log.Warn("failed to save estimate", zap.Error(err))
	}

	return result, nil
}

func (s *TaxService) Jurisdictions() []JurisdictionRates {
	return s.schedule.Jurisdictions()
}

// History returns recent estimates; limit is clamped to [1, MaxHistoryLimit].
func (s *TaxService) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.Recent(ctx, limit)
}

// normalize canonicalizes the fields that only differ cosmetically so equal
// requests share a cache key.
func normalize(in domain.TaxInput) domain.TaxInput {
	in.Jurisdiction = string(domain.ParseJurisdiction(in.Jurisdiction))
	switch in.Mode {
	case domain.ModeIncome:
		in.PurchaseAmount, in.IsEssentialGood, in.AssessedValue = 0, false, 0
		if in.FilingStatus == "" {
			in.FilingStatus = string(domain.FilingSingle)
		}
		if in.DeductionMode == "" {
			in.DeductionMode = string(domain.DeductionStandard)
		}
	case domain.ModeSales:
		in = domain.TaxInput{Mode: in.Mode, Jurisdiction: in.Jurisdiction, PurchaseAmount: in.PurchaseAmount, IsEssentialGood: in.IsEssentialGood}
	case domain.ModeProperty:
		in = domain.TaxInput{Mode: in.Mode, Jurisdiction: in.Jurisdiction, AssessedValue: in.AssessedValue}
	}
	return in
}

func (s *TaxService) cacheKey(in domain.TaxInput) string {
	// json refuses NaN and Inf; such inputs skip the cache and fail validation.
	raw, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	return cacheKeyPrefix + s.schedule.Name + ":" + strconv.FormatUint(xxhash.Sum64(raw), 16)
}

func (s *TaxService) cached(ctx context.Context, key string) (domain.TaxResult, bool) {
	if s.cache == nil || key == "" {
		return domain.TaxResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.TaxResult{}, false
	}
	var res domain.TaxResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		logger.Log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return domain.TaxResult{}, false
	}
	return res, true
}

func (s *TaxService) store(ctx context.Context, key string, res domain.TaxResult, log *zap.Logger) {
	if s.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Warn("failed to encode estimate for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		log.Warn("failed to cache estimate", zap.Error(err))
	}
}
