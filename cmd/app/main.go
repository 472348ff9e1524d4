package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/cmd/fx/db_fx"
	"taovideo/cmd/fx/logger_fx"
	"taovideo/cmd/fx/packages_fx"
	"taovideo/cmd/fx/payments_fx"
	"taovideo/cmd/fx/providers_fx"
	"taovideo/cmd/fx/videos_fx"
	"taovideo/internal/api/controllers"
	"taovideo/internal/infra"
	"taovideo/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		providers_fx.Module,
		payments_fx.Module,
		videos_fx.Module,
		packages_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, db *gorm.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
}

func ProvideRouter(
	paymentController *controllers.PaymentController,
	videoController *controllers.VideoController,
	packageController *controllers.PackageController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, paymentController, videoController, packageController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	paymentController *controllers.PaymentController,
	videoController *controllers.VideoController,
	packageController *controllers.PackageController) {

	api := r.Group("/api")

	// Provider callbacks authenticate themselves, not the user.
	api.POST("/payos-webhook", paymentController.HandleWebhook)
	api.POST("/video-callback", videoController.HandleCallback)

	api.GET("/credit-packages", packageController.ListPackages)
	api.GET("/videos/price", videoController.GetPrice)

	authed := api.Group("")
	authed.Use(middleware.JWTAuthMiddleware())

	authed.POST("/payments/create-checkout", paymentController.CreateCheckout)
	authed.GET("/payments/transactions", paymentController.ListTransactions)
	authed.POST("/payments/transactions/:id/cancel", paymentController.CancelTransaction)

	authed.POST("/videos", videoController.CreateVideo)
	authed.GET("/videos/credits", paymentController.GetBalance)
	authed.GET("/videos", videoController.ListVideos)
	authed.GET("/videos/:id/status", videoController.GetStatus)
	authed.DELETE("/videos/:id", videoController.DeleteVideo)
}
