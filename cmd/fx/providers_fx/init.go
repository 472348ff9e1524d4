package providers_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"taovideo/internal/providers/payosgw"
	"taovideo/internal/providers/storage"
	"taovideo/internal/providers/videoapi"
)

var Module = fx.Provide(
	providePayOSConfig, providePayOSGateway, provideVideoClient, provideStorageClient,
)

func providePayOSConfig() payosgw.Config {
	return payosgw.Config{
		ClientID:    os.Getenv("PAYOS_CLIENT_ID"),
		APIKey:      os.Getenv("PAYOS_API_KEY"),
		ChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),
		ReturnURL:   os.Getenv("APP_URL") + "/payment/success",
		CancelURL:   os.Getenv("APP_URL") + "/payment/cancel",
	}
}

func providePayOSGateway(cfg payosgw.Config) payosgw.Gateway {
	gateway, err := payosgw.NewGateway(cfg)
	if err != nil {
		log.Fatalf("Error initializing PayOS gateway: %v", err)
	}

	return gateway
}

func provideVideoClient(logger *zap.Logger) videoapi.Client {
	return videoapi.NewClient(videoapi.Config{
		BaseURL:     os.Getenv("VIDEO_API_URL"),
		APIKey:      os.Getenv("VIDEO_API_KEY"),
		CallbackURL: os.Getenv("APP_URL") + "/api/video-callback",
	}, logger)
}

func provideStorageClient(logger *zap.Logger) storage.Client {
	return storage.NewClient(storage.Config{
		BaseURL:        os.Getenv("STORAGE_URL"),
		ServiceRoleKey: os.Getenv("STORAGE_SERVICE_ROLE_KEY"),
	}, logger)
}
