package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"taovideo/internal/models/db_models"
	"taovideo/internal/providers/videoapi"
	"taovideo/internal/repositories"
	"taovideo/pkg/memcache"
)

const (
	// FallbackCreditsCost is charged when no matching active pricing row
	// exists. Availability over correctness: a misconfigured pricing table
	// must not block job creation, but every substitution is logged.
	FallbackCreditsCost int64 = 7000

	defaultDurationSeconds = 10
	defaultResolution      = "1280x720"
	defaultQuality         = "standard"

	pricingCacheTTL = 5 * time.Minute
)

type VideoPriceParams struct {
	Type       db_models.VideoType
	Resolution string
	Quality    string
}

type PricingServiceInterface interface {
	// CalculateVideoPrice never fails; a lookup miss or query error falls
	// back to FallbackCreditsCost.
	CalculateVideoPrice(ctx context.Context, params VideoPriceParams) int64

	// InvalidateCache drops every cached price. Called after admin price
	// updates so new rows take effect immediately.
	InvalidateCache()
}

type pricingService struct {
	pricingRepo repositories.PricingRepository
	cache       *memcache.TTLCache[*db_models.VideoPricing]
	log         *zap.Logger
}

func NewPricingService(pricingRepo repositories.PricingRepository, log *zap.Logger, now memcache.Clock) PricingServiceInterface {
	return &pricingService{
		pricingRepo: pricingRepo,
		cache:       memcache.NewTTLCache[*db_models.VideoPricing](pricingCacheTTL, now),
		log:         log.Named("pricing"),
	}
}

func (p *pricingService) CalculateVideoPrice(ctx context.Context, params VideoPriceParams) int64 {
	modelName := videoapi.ModelTextToVideo
	if params.Type == db_models.VideoTypeImageToVideo {
		modelName = videoapi.ModelImageToVideo
	}

	resolution := params.Resolution
	if resolution == "" {
		resolution = defaultResolution
	}
	quality := params.Quality
	if quality == "" {
		quality = defaultQuality
	}

	cacheKey := fmt.Sprintf("%s_%d_%s_%s", modelName, defaultDurationSeconds, resolution, quality)
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.CreditsCost
	}

	pricing, err := p.pricingRepo.FindActive(ctx, modelName, defaultDurationSeconds, resolution, quality)
	if err != nil || pricing == nil {
		p.log.Warn("pricing fallback used",
			zap.String("model", modelName),
			zap.String("resolution", resolution),
			zap.String("quality", quality),
			zap.Int64("fallback_credits", FallbackCreditsCost),
			zap.Error(err))
		return FallbackCreditsCost
	}

	p.cache.Set(cacheKey, pricing)
	p.log.Debug("fetched fresh price",
		zap.String("model", modelName),
		zap.Int64("credits", pricing.CreditsCost))

	return pricing.CreditsCost
}

func (p *pricingService) InvalidateCache() {
	p.cache.Clear()
	p.log.Info("pricing cache cleared")
}
