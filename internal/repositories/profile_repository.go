package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

func (p *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := p.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}
