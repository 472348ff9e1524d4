package db_models

import "github.com/google/uuid"

// Profile mirrors one row per auth user. UserID is issued by the external
// auth provider; profiles are created at sign-up and never hard-deleted.
type Profile struct {
	BaseModel
	UserID               uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	FullName             string
	AvatarURL            string
	Credits              int64 `gorm:"not null;default:0"` // 1 credit = 1 VND
	TotalVideosGenerated int   `gorm:"not null;default:0"`
}
