package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"taovideo/internal/models/db_models"
	"taovideo/internal/models/request_models"
	"taovideo/internal/models/response_models"
	"taovideo/internal/providers/videoapi"
	"taovideo/internal/services"
	"taovideo/pkg/utils"
)

type VideoController struct {
	videoService   services.VideoServiceInterface
	pricingService services.PricingServiceInterface
}

func NewVideoController(videoService services.VideoServiceInterface, pricingService services.PricingServiceInterface) *VideoController {
	return &VideoController{
		videoService:   videoService,
		pricingService: pricingService,
	}
}

// CreateVideo godoc
// @Summary Create a video generation job
// @Description Submit a text-to-video or image-to-video job and deduct credits
// @Tags Videos
// @Accept json
// @Produce json
// @Param request body request_models.CreateVideoRequest true "Create Video Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos [post]
func (v *VideoController) CreateVideo(c *gin.Context) {

	var request request_models.CreateVideoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	userId, _ := uuid.Parse(userid)

	result, err := v.videoService.CreateVideo(c.Request.Context(), userId, request)
	if err != nil {
		v.handleProviderError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Video generation started")
}

// HandleCallback godoc
// @Summary Video provider status callback
// @Description Receive a status callback from the video generation provider
// @Tags Videos
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /video-callback [post]
func (v *VideoController) HandleCallback(c *gin.Context) {

	var request request_models.VideoCallbackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid callback payload"})
		return
	}

	err := v.videoService.HandleCallback(c.Request.Context(), request)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, utils.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing taskId"})
	case errors.Is(err, utils.ErrVideoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Video not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

// GetStatus godoc
// @Summary Get the current status of a video job
// @Description Return the job status, polling the provider for jobs still in flight
// @Tags Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos/{id}/status [get]
func (v *VideoController) GetStatus(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid video id")
		return
	}

	userId, _ := uuid.Parse(userid)

	status, err := v.videoService.QueryStatus(c.Request.Context(), userId, videoID)
	if err != nil {
		v.handleProviderError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Video status fetched successfully")
}

// ListVideos godoc
// @Summary List the current user's videos
// @Tags Videos
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos [get]
func (v *VideoController) ListVideos(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	userId, _ := uuid.Parse(userid)

	videos, err := v.videoService.ListVideos(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, videos, "Videos fetched successfully")
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags Videos
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos/{id} [delete]
func (v *VideoController) DeleteVideo(c *gin.Context) {

	userid := c.GetString("user_id")
	if userid == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid video id")
		return
	}

	userId, _ := uuid.Parse(userid)

	if err := v.videoService.DeleteVideo(c.Request.Context(), userId, videoID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Video deleted")
}

// GetPrice godoc
// @Summary Get the credit cost for a video type
// @Tags Videos
// @Produce json
// @Param type query string false "Video type" default(text_to_video)
// @Success 200 {object} utils.APIResponse
// @Router /videos/price [get]
func (v *VideoController) GetPrice(c *gin.Context) {

	videoType := db_models.VideoTypeTextToVideo
	if c.Query("type") == string(db_models.VideoTypeImageToVideo) {
		videoType = db_models.VideoTypeImageToVideo
	}

	credits := v.pricingService.CalculateVideoPrice(c.Request.Context(), services.VideoPriceParams{
		Type:       videoType,
		Resolution: c.Query("resolution"),
		Quality:    c.Query("quality"),
	})

	utils.RespondSuccess(c, response_models.VideoPriceResponse{Credits: credits}, "Price fetched successfully")
}

// handleProviderError translates video provider failures into user-facing
// messages before falling back to the shared mapping.
func (v *VideoController) handleProviderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, videoapi.ErrQuotaExceeded):
		utils.RespondError(c, http.StatusServiceUnavailable, "Video service quota exceeded, please try again later")
	case errors.Is(err, videoapi.ErrUnauthorized):
		utils.RespondError(c, http.StatusBadGateway, "Video service rejected our credentials")
	case errors.Is(err, videoapi.ErrUnavailable):
		utils.RespondError(c, http.StatusServiceUnavailable, "Video service is temporarily unavailable")
	default:
		utils.HandleServiceError(c, err)
	}
}
