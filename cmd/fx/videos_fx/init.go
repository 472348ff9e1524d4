package videos_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/internal/api/controllers"
	"taovideo/internal/providers/storage"
	"taovideo/internal/providers/videoapi"
	"taovideo/internal/repositories"
	"taovideo/internal/services"
)

var Module = fx.Provide(
	provideVideoRepository, providePricingRepository,
	providePricingService, provideVideoService, provideVideoController,
)

func provideVideoRepository(db *gorm.DB) repositories.VideoRepository {
	return repositories.NewVideoRepository(db)
}

func providePricingRepository(db *gorm.DB) repositories.PricingRepository {
	return repositories.NewPricingRepository(db)
}

func providePricingService(pricingRepo repositories.PricingRepository, log *zap.Logger) services.PricingServiceInterface {
	return services.NewPricingService(pricingRepo, log, nil)
}

func provideVideoService(
	db *gorm.DB,
	videoRepo repositories.VideoRepository,
	profileRepo repositories.ProfileRepository,
	pricingSvc services.PricingServiceInterface,
	provider videoapi.Client,
	storageClient storage.Client,
	log *zap.Logger,
) services.VideoServiceInterface {
	return services.NewVideoService(db, videoRepo, profileRepo, pricingSvc, provider, storageClient, log)
}

func provideVideoController(
	videoService services.VideoServiceInterface,
	pricingService services.PricingServiceInterface,
) *controllers.VideoController {
	return controllers.NewVideoController(videoService, pricingService)
}
