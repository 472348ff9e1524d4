package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
)

type PackageRepository interface {
	ListActive(ctx context.Context) ([]db_models.CreditPackage, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.CreditPackage, error)
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{
		db: db,
	}
}

func (p *packageRepository) ListActive(ctx context.Context) ([]db_models.CreditPackage, error) {
	var packages []db_models.CreditPackage
	err := p.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC").
		Find(&packages).Error
	if err != nil {
		return nil, err
	}

	return packages, nil
}

func (p *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.CreditPackage, error) {
	var pkg db_models.CreditPackage
	err := p.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&pkg).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pkg, nil
}
