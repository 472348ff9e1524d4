package request_models

type CreateVideoRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	AspectRatio string `json:"aspect_ratio"` // landscape (default) or portrait
	ImageURL    string `json:"image_url"`    // required for image_to_video
	Type        string `json:"type"`         // text_to_video (default) or image_to_video
}

// VideoCallbackRequest is the provider's job-status callback envelope.
// code 200 + state success means done; code 501 or state fail means failed.
type VideoCallbackRequest struct {
	Code int                `json:"code"`
	Msg  string             `json:"msg"`
	Data *VideoCallbackData `json:"data"`
}

type VideoCallbackData struct {
	TaskID     string `json:"taskId"`
	State      string `json:"state"` // waiting | queuing | generating | success | fail
	ResultJSON string `json:"resultJson"`
	FailMsg    string `json:"failMsg"`
}
