package response_models

type CreateVideoResponse struct {
	VideoID          string `json:"video_id"`
	TaskID           string `json:"task_id"`
	CreditsRemaining int64  `json:"credits_remaining"`
}

type VideoResponse struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Status             string `json:"status"`
	Prompt             string `json:"prompt"`
	ImageURL           string `json:"image_url,omitempty"`
	VideoURL           string `json:"video_url,omitempty"`
	ThumbnailURL       string `json:"thumbnail_url,omitempty"`
	ProgressPercentage int    `json:"progress_percentage"`
	CreditsUsed        int64  `json:"credits_used"`
	ErrorMessage       string `json:"error_message,omitempty"`
	CreatedAt          int64  `json:"created_at"`
	CompletedAt        *int64 `json:"completed_at,omitempty"`
}

type VideoStatusResponse struct {
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	VideoURL     string `json:"video_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type VideoPriceResponse struct {
	Credits int64 `json:"credits"`
}

type CreditBalanceResponse struct {
	Credits int64 `json:"credits"`
}
