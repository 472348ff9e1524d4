package db_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(log *zap.Logger) *gorm.DB {
	return infra.InitPostgresql(log)
}
