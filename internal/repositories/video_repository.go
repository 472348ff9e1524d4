package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
)

type VideoRepository interface {
	Insert(ctx context.Context, video *db_models.Video) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*db_models.Video, error)
	FindByExternalJobID(ctx context.Context, taskID string) (*db_models.Video, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Video, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{
		db: db,
	}
}

func (v *videoRepository) Insert(ctx context.Context, video *db_models.Video) error {
	return v.db.WithContext(ctx).Create(video).Error
}

func (v *videoRepository) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*db_models.Video, error) {
	var video db_models.Video
	err := v.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&video).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &video, nil
}

func (v *videoRepository) FindByExternalJobID(ctx context.Context, taskID string) (*db_models.Video, error) {
	var video db_models.Video
	err := v.db.WithContext(ctx).First(&video, "external_job_id = ?", taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &video, nil
}

func (v *videoRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Video, error) {
	var videos []db_models.Video
	err := v.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, db_models.VideoStatusDeleted).
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}

	return videos, nil
}

// HardDelete removes a row outright. Used only to undo a just-created job
// whose credit deduction failed.
func (v *videoRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return v.db.WithContext(ctx).Unscoped().Delete(&db_models.Video{}, "id = ?", id).Error
}
