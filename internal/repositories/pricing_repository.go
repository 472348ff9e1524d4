package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
)

type PricingRepository interface {
	FindActive(ctx context.Context, videoType string, durationSeconds int, resolution string, quality string) (*db_models.VideoPricing, error)
}

type pricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{
		db: db,
	}
}

func (p *pricingRepository) FindActive(ctx context.Context, videoType string, durationSeconds int, resolution string, quality string) (*db_models.VideoPricing, error) {
	var pricing db_models.VideoPricing
	err := p.db.WithContext(ctx).
		Where("video_type = ? AND duration_seconds = ? AND resolution = ? AND quality = ? AND active = ?",
			videoType, durationSeconds, resolution, quality, true).
		First(&pricing).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pricing, nil
}
