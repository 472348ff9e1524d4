package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
	"taovideo/internal/models/request_models"
	"taovideo/internal/models/response_models"
	"taovideo/internal/providers/storage"
	"taovideo/internal/providers/videoapi"
	"taovideo/internal/repositories"
	"taovideo/pkg/utils"
)

const refImageBucket = "images"

type VideoServiceInterface interface {
	CreateVideo(ctx context.Context, userID uuid.UUID, req request_models.CreateVideoRequest) (*response_models.CreateVideoResponse, error)

	// HandleCallback reconciles one provider status callback against the
	// videos table, refunding credits on terminal failure. Returns
	// ErrInvalidPayload, ErrVideoNotFound or a persistence error.
	HandleCallback(ctx context.Context, req request_models.VideoCallbackRequest) error

	QueryStatus(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) (*response_models.VideoStatusResponse, error)
	ListVideos(ctx context.Context, userID uuid.UUID) ([]response_models.VideoResponse, error)
	DeleteVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error
}

type videoService struct {
	db          *gorm.DB
	videoRepo   repositories.VideoRepository
	profileRepo repositories.ProfileRepository
	pricingSvc  PricingServiceInterface
	provider    videoapi.Client
	storage     storage.Client
	log         *zap.Logger
}

func NewVideoService(
	db *gorm.DB,
	videoRepo repositories.VideoRepository,
	profileRepo repositories.ProfileRepository,
	pricingSvc PricingServiceInterface,
	provider videoapi.Client,
	storageClient storage.Client,
	log *zap.Logger,
) VideoServiceInterface {
	return &videoService{
		db:          db,
		videoRepo:   videoRepo,
		profileRepo: profileRepo,
		pricingSvc:  pricingSvc,
		provider:    provider,
		storage:     storageClient,
		log:         log.Named("video"),
	}
}

func (v *videoService) CreateVideo(ctx context.Context, userID uuid.UUID, req request_models.CreateVideoRequest) (*response_models.CreateVideoResponse, error) {
	videoType := db_models.VideoTypeTextToVideo
	if req.Type == string(db_models.VideoTypeImageToVideo) {
		videoType = db_models.VideoTypeImageToVideo
	}
	if videoType == db_models.VideoTypeImageToVideo && req.ImageURL == "" {
		return nil, fmt.Errorf("%w: image_url is required for image-to-video generation", utils.ErrInvalidPayload)
	}

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "landscape"
	}

	profile, err := v.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.ErrProfileNotFound
	}

	// Cost is fixed now; the refund on failure pays back exactly this.
	creditsNeeded := v.pricingSvc.CalculateVideoPrice(ctx, VideoPriceParams{Type: videoType})
	if profile.Credits < creditsNeeded {
		return nil, fmt.Errorf("%w: you need %d credits but only have %d",
			utils.ErrInsufficientCredits, creditsNeeded, profile.Credits)
	}

	model := videoapi.ModelTextToVideo
	input := videoapi.TaskInput{
		Prompt:      req.Prompt,
		AspectRatio: aspectRatio,
	}
	if videoType == db_models.VideoTypeImageToVideo {
		model = videoapi.ModelImageToVideo
		input.ImageURLs = []string{req.ImageURL}
	}

	taskID, err := v.provider.CreateTask(ctx, model, input)
	if err != nil {
		return nil, err
	}

	video := &db_models.Video{
		UserID:             userID,
		VideoType:          videoType,
		Status:             db_models.VideoStatusPending,
		Prompt:             req.Prompt,
		CreditsUsed:        creditsNeeded,
		ExternalJobID:      taskID,
		ProgressPercentage: 0,
	}
	if videoType == db_models.VideoTypeImageToVideo {
		video.ImageURL = req.ImageURL
	}

	if err := v.videoRepo.Insert(ctx, video); err != nil {
		v.log.Error("failed to save video metadata",
			zap.String("task_id", taskID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	if err := v.deductCredits(ctx, video, creditsNeeded); err != nil {
		// Undo the just-created job so the user is not left with a row
		// they were never charged for.
		if delErr := v.videoRepo.HardDelete(ctx, video.ID); delErr != nil {
			v.log.Error("failed to roll back video row after deduction failure",
				zap.String("video_id", video.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	v.log.Info("video task created",
		zap.String("video_id", video.ID.String()),
		zap.String("task_id", taskID),
		zap.String("type", string(videoType)),
		zap.Int64("credits_used", creditsNeeded))

	return &response_models.CreateVideoResponse{
		VideoID:          video.ID.String(),
		TaskID:           taskID,
		CreditsRemaining: profile.Credits - creditsNeeded,
	}, nil
}

// deductCredits debits the balance, bumps the generation counter and writes
// the deduction ledger row in one unit. The balance guard repeats the credit
// check inside the update so a concurrent job cannot drive it negative.
func (v *videoService) deductCredits(ctx context.Context, video *db_models.Video, creditsNeeded int64) error {
	now := time.Now().Unix()

	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Profile{}).
			Where("user_id = ? AND credits >= ?", video.UserID, creditsNeeded).
			Updates(map[string]interface{}{
				"credits":                gorm.Expr("credits - ?", creditsNeeded),
				"total_videos_generated": gorm.Expr("total_videos_generated + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: balance changed while creating the job", utils.ErrInsufficientCredits)
		}

		kind := "text"
		if video.VideoType == db_models.VideoTypeImageToVideo {
			kind = "image"
		}
		deduction := &db_models.Transaction{
			UserID:      video.UserID,
			Type:        db_models.TxnTypeVideoDeduction,
			Status:      db_models.TxnStatusCompleted,
			Credits:     -creditsNeeded,
			VideoID:     &video.ID,
			Description: fmt.Sprintf("Video generation (%s): %s", kind, truncatePrompt(video.Prompt, 50)),
			CompletedAt: &now,
		}
		return tx.Create(deduction).Error
	})
}

func (v *videoService) HandleCallback(ctx context.Context, req request_models.VideoCallbackRequest) error {
	// 1. Validate shape.
	if req.Data == nil || req.Data.TaskID == "" {
		return utils.ErrInvalidPayload
	}

	// 2. Correlate by provider task id.
	video, err := v.videoRepo.FindByExternalJobID(ctx, req.Data.TaskID)
	if err != nil {
		return err
	}
	if video == nil {
		v.log.Warn("callback for unknown task", zap.String("task_id", req.Data.TaskID))
		return utils.ErrVideoNotFound
	}

	// Terminal statuses are final: a redelivered or out-of-order callback
	// cannot move a job backward, and a duplicate failure callback cannot
	// refund twice.
	if video.Status.IsTerminal() {
		v.log.Info("ignoring callback for terminal video",
			zap.String("video_id", video.ID.String()),
			zap.String("status", string(video.Status)))
		return nil
	}

	// 3. Map provider state.
	status, progress, ok := mapProviderState(req.Code, req.Data.State)
	if !ok {
		v.log.Warn("unmapped callback state, leaving video unchanged",
			zap.Int("code", req.Code),
			zap.String("state", req.Data.State),
			zap.String("task_id", req.Data.TaskID))
		return nil
	}

	var videoURL, errMsg string
	switch status {
	case db_models.VideoStatusCompleted:
		videoURL = v.parseResultURL(req.Data.ResultJSON, video.ID)
	case db_models.VideoStatusFailed:
		errMsg = req.Data.FailMsg
		if errMsg == "" {
			errMsg = req.Msg
		}
		if errMsg == "" {
			errMsg = defaultFailureMessage
		}
	}

	return v.applyStatus(ctx, video, status, progress, videoURL, errMsg)
}

// parseResultURL extracts the playable URL from the provider's JSON-encoded
// result string. A parse failure is logged and swallowed; the job still
// completes, just without a URL.
func (v *videoService) parseResultURL(resultJSON string, videoID uuid.UUID) string {
	if resultJSON == "" {
		return ""
	}
	var result struct {
		ResultURLs []string `json:"resultUrls"`
	}
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		v.log.Error("failed to parse resultJson",
			zap.String("video_id", videoID.String()), zap.Error(err))
		return ""
	}
	if len(result.ResultURLs) == 0 {
		return ""
	}
	return result.ResultURLs[0]
}

// applyStatus persists the new status and, when the job just failed, refunds
// credits_used in the same unit. The conditional update keyed on the
// non-terminal statuses is the at-most-once guard for the refund.
func (v *videoService) applyStatus(ctx context.Context, video *db_models.Video, status db_models.VideoStatus, progress int, videoURL string, errMsg string) error {
	now := time.Now().Unix()

	updates := map[string]interface{}{
		"status":              status,
		"progress_percentage": progress,
		"updated_at":          now,
	}
	if videoURL != "" {
		updates["video_url"] = videoURL
		updates["completed_at"] = now
	} else if status == db_models.VideoStatusCompleted {
		updates["completed_at"] = now
	}
	if errMsg != "" {
		updates["error_message"] = errMsg
	}

	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Video{}).
			Where("id = ? AND status IN ?", video.ID,
				[]db_models.VideoStatus{db_models.VideoStatusPending, db_models.VideoStatusProcessing}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrAlreadyProcessed
		}

		if status == db_models.VideoStatusFailed && video.CreditsUsed > 0 {
			credit := tx.Model(&db_models.Profile{}).
				Where("user_id = ?", video.UserID).
				Update("credits", gorm.Expr("credits + ?", video.CreditsUsed))
			if credit.Error != nil {
				return credit.Error
			}

			refund := &db_models.Transaction{
				UserID:      video.UserID,
				Type:        db_models.TxnTypeRefund,
				Status:      db_models.TxnStatusCompleted,
				Credits:     video.CreditsUsed,
				VideoID:     &video.ID,
				Description: fmt.Sprintf("Refund for failed video: %s", truncatePrompt(video.Prompt, 50)),
				CompletedAt: &now,
			}
			if err := tx.Create(refund).Error; err != nil {
				return err
			}

			v.log.Info("refunded credits for failed video",
				zap.String("video_id", video.ID.String()),
				zap.String("user_id", video.UserID.String()),
				zap.Int64("credits", video.CreditsUsed))
		}

		return nil
	})
	if errors.Is(err, utils.ErrAlreadyProcessed) {
		// Another delivery beat us to the terminal edge.
		return nil
	}
	if err != nil {
		v.log.Error("failed to update video",
			zap.String("video_id", video.ID.String()), zap.Error(err))
		return err
	}

	// The reference image is only needed during generation.
	if video.ImageURL != "" && status.IsTerminal() {
		v.cleanupRefImage(ctx, video)
	}

	v.log.Info("video updated",
		zap.String("video_id", video.ID.String()),
		zap.String("status", string(status)),
		zap.Int("progress", progress))

	return nil
}

// cleanupRefImage is best-effort; a storage failure never fails the handler.
func (v *videoService) cleanupRefImage(ctx context.Context, video *db_models.Video) {
	path, ok := storage.RefImagePath(video.ImageURL)
	if !ok {
		v.log.Warn("could not parse reference image URL for cleanup",
			zap.String("video_id", video.ID.String()))
		return
	}

	if err := v.storage.DeleteObject(ctx, refImageBucket, path); err != nil {
		v.log.Error("failed to delete reference image",
			zap.String("video_id", video.ID.String()),
			zap.String("path", path),
			zap.Error(err))
		return
	}

	v.log.Info("deleted reference image",
		zap.String("video_id", video.ID.String()),
		zap.String("path", path))
}

func (v *videoService) QueryStatus(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) (*response_models.VideoStatusResponse, error) {
	video, err := v.videoRepo.FindByID(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, utils.ErrVideoNotFound
	}

	// Terminal rows answer from the database without touching the provider.
	if video.Status.IsTerminal() {
		return &response_models.VideoStatusResponse{
			Status:       string(video.Status),
			Progress:     video.ProgressPercentage,
			VideoURL:     video.VideoURL,
			ErrorMessage: video.ErrorMessage,
		}, nil
	}

	record, err := v.provider.QueryTask(ctx, video.ExternalJobID)
	if err != nil {
		return nil, err
	}

	status, progress, ok := mapProviderState(200, record.State)
	if !ok {
		return &response_models.VideoStatusResponse{
			Status:   string(video.Status),
			Progress: video.ProgressPercentage,
		}, nil
	}

	var videoURL, errMsg string
	switch status {
	case db_models.VideoStatusCompleted:
		videoURL = v.parseResultURL(record.ResultJSON, video.ID)
	case db_models.VideoStatusFailed:
		errMsg = record.FailMsg
		if errMsg == "" {
			errMsg = defaultFailureMessage
		}
	}

	if err := v.applyStatus(ctx, video, status, progress, videoURL, errMsg); err != nil {
		return nil, err
	}

	return &response_models.VideoStatusResponse{
		Status:       string(status),
		Progress:     progress,
		VideoURL:     videoURL,
		ErrorMessage: errMsg,
	}, nil
}

func (v *videoService) ListVideos(ctx context.Context, userID uuid.UUID) ([]response_models.VideoResponse, error) {
	videos, err := v.videoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.VideoResponse, 0, len(videos))
	for _, video := range videos {
		out = append(out, response_models.VideoResponse{
			ID:                 video.ID.String(),
			Type:               string(video.VideoType),
			Status:             string(video.Status),
			Prompt:             video.Prompt,
			ImageURL:           video.ImageURL,
			VideoURL:           video.VideoURL,
			ThumbnailURL:       video.ThumbnailURL,
			ProgressPercentage: video.ProgressPercentage,
			CreditsUsed:        video.CreditsUsed,
			ErrorMessage:       video.ErrorMessage,
			CreatedAt:          video.CreatedAt,
			CompletedAt:        video.CompletedAt,
		})
	}

	return out, nil
}

func (v *videoService) DeleteVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	video, err := v.videoRepo.FindByID(ctx, videoID, userID)
	if err != nil {
		return err
	}
	if video == nil {
		return utils.ErrVideoNotFound
	}

	err = v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Video{}).
			Where("id = ?", video.ID).
			Update("status", db_models.VideoStatusDeleted).Error; err != nil {
			return err
		}
		// Soft delete keeps the row for the ledger trail.
		return tx.Delete(&db_models.Video{}, "id = ?", video.ID).Error
	})
	if err != nil {
		v.log.Error("failed to delete video",
			zap.String("video_id", video.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}

	if video.ImageURL != "" {
		v.cleanupRefImage(ctx, video)
	}

	return nil
}
