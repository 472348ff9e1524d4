package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VideoType string

const (
	VideoTypeTextToVideo  VideoType = "text_to_video"
	VideoTypeImageToVideo VideoType = "image_to_video"
)

type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusCompleted  VideoStatus = "completed"
	VideoStatusFailed     VideoStatus = "failed"
	VideoStatusDeleted    VideoStatus = "deleted"
)

// IsTerminal reports whether no further automatic transition is expected.
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed || s == VideoStatusDeleted
}

type Video struct {
	BaseModel
	UserID    uuid.UUID   `gorm:"type:uuid;index"`
	VideoType VideoType   `gorm:"index"`
	Status    VideoStatus `gorm:"index"`
	Prompt    string

	// Reference image for image-to-video jobs, removed from storage once
	// the job reaches a terminal status.
	ImageURL string

	VideoURL        string
	ThumbnailURL    string
	DurationSeconds int

	// Fixed at creation time from the pricing resolver; the refund on a
	// terminal failure pays back exactly this amount.
	CreditsUsed int64

	// Correlation key into the provider's task id space.
	ExternalJobID string `gorm:"uniqueIndex"`

	ProgressPercentage int
	ErrorMessage       string
	Metadata           datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CompletedAt        *int64
}
