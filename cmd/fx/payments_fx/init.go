package payments_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/internal/api/controllers"
	"taovideo/internal/providers/payosgw"
	"taovideo/internal/repositories"
	"taovideo/internal/services"
)

var Module = fx.Provide(
	provideTransactionRepository, provideProfileRepository, providePackageRepository,
	providePaymentService, providePaymentController,
)

func provideTransactionRepository(db *gorm.DB) repositories.TransactionRepository {
	return repositories.NewTransactionRepository(db)
}

func provideProfileRepository(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}

func providePackageRepository(db *gorm.DB) repositories.PackageRepository {
	return repositories.NewPackageRepository(db)
}

func providePaymentService(
	db *gorm.DB,
	gateway payosgw.Gateway,
	txnRepo repositories.TransactionRepository,
	profileRepo repositories.ProfileRepository,
	packageRepo repositories.PackageRepository,
	cfg payosgw.Config,
	log *zap.Logger,
) services.PaymentServiceInterface {
	return services.NewPaymentService(db, gateway, txnRepo, profileRepo, packageRepo, cfg, log)
}

func providePaymentController(paymentService services.PaymentServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
