package videoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Provider model names. All jobs currently run at a fixed 10s duration.
const (
	ModelTextToVideo  = "sora-2-text-to-video"
	ModelImageToVideo = "sora-2-image-to-video"
)

var (
	ErrQuotaExceeded = errors.New("video api quota exceeded")
	ErrUnauthorized  = errors.New("video api key rejected")
	ErrUnavailable   = errors.New("video api temporarily unavailable")
	ErrTaskNotFound  = errors.New("video api task not found")
)

type Config struct {
	BaseURL     string
	APIKey      string
	CallbackURL string // our /api/video-callback endpoint
}

type TaskInput struct {
	Prompt      string   `json:"prompt"`
	AspectRatio string   `json:"aspect_ratio"`
	ImageURLs   []string `json:"image_urls,omitempty"` // array even for a single reference image
}

// TaskRecord is the provider's view of one generation job.
type TaskRecord struct {
	TaskID     string `json:"taskId"`
	Model      string `json:"model"`
	State      string `json:"state"` // waiting | queuing | generating | success | fail
	ResultJSON string `json:"resultJson"`
	FailMsg    string `json:"failMsg"`
}

type Client interface {
	CreateTask(ctx context.Context, model string, input TaskInput) (string, error)
	QueryTask(ctx context.Context, taskID string) (*TaskRecord, error)
}

type client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) Client {
	return &client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.Named("videoapi"),
	}
}

type createTaskRequest struct {
	Model       string    `json:"model"`
	CallBackURL string    `json:"callBackUrl"`
	Input       TaskInput `json:"input"`
}

type createTaskResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

func (c *client) CreateTask(ctx context.Context, model string, input TaskInput) (string, error) {
	body, err := json.Marshal(createTaskRequest{
		Model:       model,
		CallBackURL: c.cfg.CallbackURL,
		Input:       input,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/api/v1/jobs/createTask", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	defer resp.Body.Close()

	var out createTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("create task: decode response: %w", err)
	}

	if out.Code != 200 || out.Data == nil || out.Data.TaskID == "" {
		c.log.Warn("create task rejected",
			zap.Int("code", out.Code),
			zap.String("message", out.Message))
		return "", codeError(out.Code, out.Message)
	}

	return out.Data.TaskID, nil
}

type recordInfoResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    *TaskRecord `json:"data"`
}

func (c *client) QueryTask(ctx context.Context, taskID string) (*TaskRecord, error) {
	endpoint := c.cfg.BaseURL + "/api/v1/jobs/recordInfo?taskId=" + url.QueryEscape(taskID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	defer resp.Body.Close()

	var out recordInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("query task: decode response: %w", err)
	}

	if out.Code != 200 || out.Data == nil {
		if out.Code == 404 {
			return nil, ErrTaskNotFound
		}
		return nil, codeError(out.Code, out.Message)
	}

	return out.Data, nil
}

// codeError maps the provider's application-level codes onto sentinel errors
// the service layer turns into user-facing messages.
func codeError(code int, message string) error {
	switch code {
	case 433:
		return ErrQuotaExceeded
	case 401:
		return ErrUnauthorized
	case 500:
		return ErrUnavailable
	}
	if message == "" {
		message = "unexpected response"
	}
	return fmt.Errorf("video api: %s (code %d)", message, code)
}
