package packages_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"taovideo/internal/api/controllers"
	"taovideo/internal/repositories"
	"taovideo/internal/services"
)

var Module = fx.Provide(
	providePackageService, providePackageController,
)

func providePackageService(repo repositories.PackageRepository, log *zap.Logger) services.PackageServiceInterface {
	return services.NewPackageService(repo, log, nil)
}

func providePackageController(packageService services.PackageServiceInterface) *controllers.PackageController {
	return controllers.NewPackageController(packageService)
}
