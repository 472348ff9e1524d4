package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"taovideo/internal/models/request_models"
	"taovideo/internal/models/response_models"
	"taovideo/internal/services"
	"taovideo/pkg/utils"
)

type stubVideoService struct {
	callbackErr error
	gotCallback *request_models.VideoCallbackRequest
}

func (s *stubVideoService) CreateVideo(ctx context.Context, userID uuid.UUID, req request_models.CreateVideoRequest) (*response_models.CreateVideoResponse, error) {
	return nil, nil
}

func (s *stubVideoService) HandleCallback(ctx context.Context, req request_models.VideoCallbackRequest) error {
	s.gotCallback = &req
	return s.callbackErr
}

func (s *stubVideoService) QueryStatus(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) (*response_models.VideoStatusResponse, error) {
	return nil, nil
}

func (s *stubVideoService) ListVideos(ctx context.Context, userID uuid.UUID) ([]response_models.VideoResponse, error) {
	return nil, nil
}

func (s *stubVideoService) DeleteVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	return nil
}

type stubPricingService struct{}

func (s *stubPricingService) CalculateVideoPrice(ctx context.Context, params services.VideoPriceParams) int64 {
	return 7000
}

func (s *stubPricingService) InvalidateCache() {}

func callbackRouter(svc *stubVideoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := NewVideoController(svc, &stubPricingService{})
	r.POST("/api/video-callback", controller.HandleCallback)
	return r
}

func postCallback(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/video-callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVideoCallbackEndpoint_Success(t *testing.T) {
	svc := &stubVideoService{}
	r := callbackRouter(svc)

	w := postCallback(r, `{"code":200,"msg":"ok","data":{"taskId":"task-1","state":"success","resultJson":"{\"resultUrls\":[\"https://cdn.example.com/v.mp4\"]}"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	if assert.NotNil(t, svc.gotCallback) {
		assert.Equal(t, "task-1", svc.gotCallback.Data.TaskID)
		assert.Equal(t, "success", svc.gotCallback.Data.State)
	}
}

func TestVideoCallbackEndpoint_MissingTaskID(t *testing.T) {
	svc := &stubVideoService{callbackErr: utils.ErrInvalidPayload}
	r := callbackRouter(svc)

	w := postCallback(r, `{"code":200,"data":{"state":"success"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideoCallbackEndpoint_UnknownTask(t *testing.T) {
	svc := &stubVideoService{callbackErr: utils.ErrVideoNotFound}
	r := callbackRouter(svc)

	w := postCallback(r, `{"code":200,"data":{"taskId":"nope","state":"success"}}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoCallbackEndpoint_MalformedBody(t *testing.T) {
	svc := &stubVideoService{}
	r := callbackRouter(svc)

	w := postCallback(r, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotCallback)
}
