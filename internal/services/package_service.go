package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"taovideo/internal/models/response_models"
	"taovideo/internal/repositories"
	"taovideo/pkg/memcache"
	"taovideo/pkg/utils"
)

const (
	packageCacheTTL = 5 * time.Minute
	packageCacheKey = "credit_packages"
)

type PackageServiceInterface interface {
	ListPackages(ctx context.Context) ([]response_models.CreditPackageResponse, error)
	InvalidateCache()
}

type packageService struct {
	repo  repositories.PackageRepository
	cache *memcache.TTLCache[[]response_models.CreditPackageResponse]
	log   *zap.Logger
}

func NewPackageService(repo repositories.PackageRepository, log *zap.Logger, now memcache.Clock) PackageServiceInterface {
	return &packageService{
		repo:  repo,
		cache: memcache.NewTTLCache[[]response_models.CreditPackageResponse](packageCacheTTL, now),
		log:   log.Named("packages"),
	}
}

func (p *packageService) ListPackages(ctx context.Context) ([]response_models.CreditPackageResponse, error) {
	if cached, ok := p.cache.Get(packageCacheKey); ok {
		return cached, nil
	}

	packages, err := p.repo.ListActive(ctx)
	if err != nil {
		p.log.Error("failed to load credit packages", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.CreditPackageResponse, 0, len(packages))
	for _, pkg := range packages {
		out = append(out, response_models.CreditPackageResponse{
			ID:                 pkg.ID.String(),
			Name:               pkg.Name,
			NameEn:             pkg.NameEn,
			Description:        pkg.Description,
			Credits:            pkg.Credits,
			PriceVND:           pkg.PriceVND,
			DiscountPercentage: pkg.DiscountPercentage,
			IsPopular:          pkg.IsPopular,
			DisplayOrder:       pkg.DisplayOrder,
		})
	}

	p.cache.Set(packageCacheKey, out)
	return out, nil
}

func (p *packageService) InvalidateCache() {
	p.cache.Clear()
}
