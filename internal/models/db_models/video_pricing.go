package db_models

// VideoPricing holds one price point per (model, duration, resolution, quality)
// tuple. Prices can change in the database without a redeploy; the resolver
// caches rows for a few minutes.
type VideoPricing struct {
	BaseModel
	VideoType       string `gorm:"index"` // provider model name, e.g. sora-2-text-to-video
	DurationSeconds int
	Resolution      string
	Quality         string
	CreditsCost     int64
	Description     string
	Active          bool `gorm:"index"`
}
