package services

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"taovideo/internal/models/db_models"
	"taovideo/internal/models/request_models"
	"taovideo/internal/providers/videoapi"
	"taovideo/internal/repositories"
	"taovideo/pkg/utils"
)

func newVideoFixture(t *testing.T) (*gorm.DB, *fakeVideoProvider, *fakeStorage, VideoServiceInterface) {
	t.Helper()

	db := setupTestDB(t)
	provider := &fakeVideoProvider{}
	store := &fakeStorage{}
	svc := NewVideoService(
		db,
		repositories.NewVideoRepository(db),
		repositories.NewProfileRepository(db),
		NewPricingService(repositories.NewPricingRepository(db), testLogger(), nil),
		provider,
		store,
		testLogger(),
	)
	return db, provider, store, svc
}

func seedVideo(t *testing.T, db *gorm.DB, userID uuid.UUID, taskID string, status db_models.VideoStatus) *db_models.Video {
	t.Helper()

	video := &db_models.Video{
		UserID:        userID,
		VideoType:     db_models.VideoTypeTextToVideo,
		Status:        status,
		Prompt:        "a cat riding a bicycle through Hanoi",
		CreditsUsed:   7000,
		ExternalJobID: taskID,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func failCallback(taskID string, failMsg string) request_models.VideoCallbackRequest {
	return request_models.VideoCallbackRequest{
		Code: 501,
		Msg:  "task failed",
		Data: &request_models.VideoCallbackData{
			TaskID:  taskID,
			State:   "fail",
			FailMsg: failMsg,
		},
	}
}

func TestCreateVideo_DeductsCreditsAndRecordsLedger(t *testing.T) {
	db, provider, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 10_000)
	provider.taskID = "task-1"

	resp, err := svc.CreateVideo(context.Background(), profile.UserID, request_models.CreateVideoRequest{
		Prompt: "sunset over Ha Long Bay",
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, int64(3_000), resp.CreditsRemaining)

	var gotProfile db_models.Profile
	require.NoError(t, db.First(&gotProfile, "id = ?", profile.ID).Error)
	assert.Equal(t, int64(3_000), gotProfile.Credits)
	assert.Equal(t, 1, gotProfile.TotalVideosGenerated)

	var video db_models.Video
	require.NoError(t, db.First(&video, "external_job_id = ?", "task-1").Error)
	assert.Equal(t, db_models.VideoStatusPending, video.Status)
	assert.Equal(t, int64(7_000), video.CreditsUsed)

	var deduction db_models.Transaction
	require.NoError(t, db.First(&deduction, "user_id = ? AND type = ?",
		profile.UserID, db_models.TxnTypeVideoDeduction).Error)
	assert.Equal(t, int64(-7_000), deduction.Credits)
	require.NotNil(t, deduction.VideoID)
	assert.Equal(t, video.ID, *deduction.VideoID)
}

func TestCreateVideo_InsufficientCredits(t *testing.T) {
	db, provider, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 100)

	_, err := svc.CreateVideo(context.Background(), profile.UserID, request_models.CreateVideoRequest{
		Prompt: "sunset",
	})
	assert.ErrorIs(t, err, utils.ErrInsufficientCredits)
	assert.Empty(t, provider.created, "no provider call when balance is short")
}

func TestCreateVideo_ImageTypeRequiresImageURL(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 10_000)

	_, err := svc.CreateVideo(context.Background(), profile.UserID, request_models.CreateVideoRequest{
		Prompt: "animate this",
		Type:   string(db_models.VideoTypeImageToVideo),
	})
	assert.ErrorIs(t, err, utils.ErrInvalidPayload)
}

func TestHandleCallback_FailureRefundsExactlyOnce(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-f1", db_models.VideoStatusProcessing)

	require.NoError(t, svc.HandleCallback(context.Background(), failCallback("task-f1", "render error")))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusFailed, got.Status)
	assert.Equal(t, "render error", got.ErrorMessage)
	assert.Equal(t, 0, got.ProgressPercentage)

	var gotProfile db_models.Profile
	require.NoError(t, db.First(&gotProfile, "id = ?", profile.ID).Error)
	assert.Equal(t, int64(7_000), gotProfile.Credits)

	var refund db_models.Transaction
	require.NoError(t, db.First(&refund, "user_id = ? AND type = ?",
		profile.UserID, db_models.TxnTypeRefund).Error)
	assert.Equal(t, int64(7_000), refund.Credits)
	assert.Contains(t, refund.Description, "Refund for failed video")

	// Redelivered failure callback hits the terminal guard.
	require.NoError(t, svc.HandleCallback(context.Background(), failCallback("task-f1", "render error")))

	var refunds int64
	require.NoError(t, db.Model(&db_models.Transaction{}).
		Where("user_id = ? AND type = ?", profile.UserID, db_models.TxnTypeRefund).
		Count(&refunds).Error)
	assert.Equal(t, int64(1), refunds, "must not refund twice")

	require.NoError(t, db.First(&gotProfile, "id = ?", profile.ID).Error)
	assert.Equal(t, int64(7_000), gotProfile.Credits)
}

func TestHandleCallback_FailureRefundsVietnamesePrompt(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)

	video := &db_models.Video{
		UserID:        profile.UserID,
		VideoType:     db_models.VideoTypeTextToVideo,
		Status:        db_models.VideoStatusProcessing,
		Prompt:        "một buổi sáng mùa đông xuân Hà Nội với xe máy chạy qua phố cổ và hàng quán vỉa hè đông đúc",
		CreditsUsed:   7000,
		ExternalJobID: "task-vn",
	}
	require.NoError(t, db.Create(video).Error)

	require.NoError(t, svc.HandleCallback(context.Background(), failCallback("task-vn", "loi render")))

	var refund db_models.Transaction
	require.NoError(t, db.First(&refund, "user_id = ? AND type = ?",
		profile.UserID, db_models.TxnTypeRefund).Error)
	assert.True(t, utf8.ValidString(refund.Description))
	assert.Contains(t, refund.Description, "Refund for failed video")

	var gotProfile db_models.Profile
	require.NoError(t, db.First(&gotProfile, "id = ?", profile.ID).Error)
	assert.Equal(t, int64(7_000), gotProfile.Credits)
}

func TestHandleCallback_FailureMessageFallbacks(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-f2", db_models.VideoStatusPending)

	req := failCallback("task-f2", "")
	req.Msg = ""
	require.NoError(t, svc.HandleCallback(context.Background(), req))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, "Video generation failed", got.ErrorMessage)
}

func TestHandleCallback_SuccessCompletesVideo(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-s1", db_models.VideoStatusProcessing)

	require.NoError(t, svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{
			TaskID:     "task-s1",
			State:      "success",
			ResultJSON: `{"resultUrls":["https://cdn.example.com/v/task-s1.mp4"]}`,
		},
	}))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusCompleted, got.Status)
	assert.Equal(t, 100, got.ProgressPercentage)
	assert.Equal(t, "https://cdn.example.com/v/task-s1.mp4", got.VideoURL)
	require.NotNil(t, got.CompletedAt)

	// Success never refunds.
	var refunds int64
	require.NoError(t, db.Model(&db_models.Transaction{}).
		Where("type = ?", db_models.TxnTypeRefund).
		Count(&refunds).Error)
	assert.Zero(t, refunds)
}

func TestHandleCallback_SuccessWithMalformedResultStillCompletes(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-s2", db_models.VideoStatusProcessing)

	require.NoError(t, svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{
			TaskID:     "task-s2",
			State:      "success",
			ResultJSON: "{not json",
		},
	}))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusCompleted, got.Status)
	assert.Empty(t, got.VideoURL)
}

func TestHandleCallback_CleansUpReferenceImage(t *testing.T) {
	db, _, store, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)

	video := &db_models.Video{
		UserID:        profile.UserID,
		VideoType:     db_models.VideoTypeImageToVideo,
		Status:        db_models.VideoStatusProcessing,
		Prompt:        "animate",
		CreditsUsed:   7000,
		ExternalJobID: "task-img",
		ImageURL:      "https://proj.supabase.co/storage/v1/object/public/images/user1/ref.png",
	}
	require.NoError(t, db.Create(video).Error)

	require.NoError(t, svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{
			TaskID:     "task-img",
			State:      "success",
			ResultJSON: `{"resultUrls":["https://cdn.example.com/v/out.mp4"]}`,
		},
	}))

	require.Len(t, store.deleted, 1)
	assert.Equal(t, "images/user1/ref.png", store.deleted[0])
}

func TestHandleCallback_ProgressStates(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-p1", db_models.VideoStatusPending)

	require.NoError(t, svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{TaskID: "task-p1", State: "generating"},
	}))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusProcessing, got.Status)
	assert.Equal(t, 50, got.ProgressPercentage)
}

func TestHandleCallback_UnmappedStateLeavesVideoUnchanged(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-u1", db_models.VideoStatusProcessing)

	require.NoError(t, svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{TaskID: "task-u1", State: "warming-up"},
	}))

	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusProcessing, got.Status)
}

func TestHandleCallback_UnknownTask(t *testing.T) {
	_, _, _, svc := newVideoFixture(t)

	err := svc.HandleCallback(context.Background(), failCallback("no-such-task", ""))
	assert.ErrorIs(t, err, utils.ErrVideoNotFound)
}

func TestHandleCallback_MissingTaskID(t *testing.T) {
	_, _, _, svc := newVideoFixture(t)

	err := svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{Code: 200})
	assert.ErrorIs(t, err, utils.ErrInvalidPayload)

	err = svc.HandleCallback(context.Background(), request_models.VideoCallbackRequest{
		Code: 200,
		Data: &request_models.VideoCallbackData{State: "success"},
	})
	assert.ErrorIs(t, err, utils.ErrInvalidPayload)
}

func TestQueryStatus_TerminalAnswersFromDatabase(t *testing.T) {
	db, provider, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)

	video := seedVideo(t, db, profile.UserID, "task-q1", db_models.VideoStatusCompleted)
	require.NoError(t, db.Model(video).Update("video_url", "https://cdn.example.com/v/q1.mp4").Error)
	provider.queryErr = assert.AnError

	status, err := svc.QueryStatus(context.Background(), profile.UserID, video.ID)
	require.NoError(t, err, "terminal status must not call the provider")
	assert.Equal(t, string(db_models.VideoStatusCompleted), status.Status)
	assert.Equal(t, "https://cdn.example.com/v/q1.mp4", status.VideoURL)
}

func TestQueryStatus_PollsProviderForInFlightJob(t *testing.T) {
	db, provider, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-q2", db_models.VideoStatusPending)

	provider.record = &videoapi.TaskRecord{
		TaskID:     "task-q2",
		State:      "success",
		ResultJSON: `{"resultUrls":["https://cdn.example.com/v/q2.mp4"]}`,
	}

	status, err := svc.QueryStatus(context.Background(), profile.UserID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, string(db_models.VideoStatusCompleted), status.Status)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, "https://cdn.example.com/v/q2.mp4", status.VideoURL)

	// The poll result is persisted, not just returned.
	var got db_models.Video
	require.NoError(t, db.First(&got, "id = ?", video.ID).Error)
	assert.Equal(t, db_models.VideoStatusCompleted, got.Status)
	assert.Equal(t, "https://cdn.example.com/v/q2.mp4", got.VideoURL)
}

// Balance must always equal the sum of completed transaction deltas.
func TestLedgerConservation(t *testing.T) {
	db, provider, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)

	// Settled purchase.
	amount := int64(50_000)
	now := int64(1)
	require.NoError(t, db.Create(&db_models.Transaction{
		UserID:      profile.UserID,
		Type:        db_models.TxnTypePurchase,
		Status:      db_models.TxnStatusCompleted,
		Credits:     50_000,
		AmountVND:   &amount,
		PaymentID:   "777888",
		CompletedAt: &now,
	}).Error)
	require.NoError(t, db.Model(&db_models.Profile{}).
		Where("id = ?", profile.ID).
		Update("credits", 50_000).Error)

	// Deduction, then a failed job refunding it.
	provider.taskID = "task-c1"
	_, err := svc.CreateVideo(context.Background(), profile.UserID, request_models.CreateVideoRequest{
		Prompt: "conservation check",
	})
	require.NoError(t, err)
	require.NoError(t, svc.HandleCallback(context.Background(), failCallback("task-c1", "boom")))

	var gotProfile db_models.Profile
	require.NoError(t, db.First(&gotProfile, "id = ?", profile.ID).Error)

	var sum int64
	require.NoError(t, db.Model(&db_models.Transaction{}).
		Where("user_id = ? AND status = ?", profile.UserID, db_models.TxnStatusCompleted).
		Select("COALESCE(SUM(credits), 0)").
		Scan(&sum).Error)

	assert.Equal(t, sum, gotProfile.Credits)
	assert.Equal(t, int64(50_000), gotProfile.Credits)
}

func TestDeleteVideo_ExcludedFromListing(t *testing.T) {
	db, _, _, svc := newVideoFixture(t)
	profile := seedProfile(t, db, 0)
	video := seedVideo(t, db, profile.UserID, "task-d1", db_models.VideoStatusCompleted)
	kept := seedVideo(t, db, profile.UserID, "task-d2", db_models.VideoStatusCompleted)

	require.NoError(t, svc.DeleteVideo(context.Background(), profile.UserID, video.ID))

	videos, err := svc.ListVideos(context.Background(), profile.UserID)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, kept.ID.String(), videos[0].ID)
}
