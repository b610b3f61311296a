package models

import "time"

type FetchLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FetchID    string `gorm:"size:36;index" json:"fetch_id"`
	Trigger    string `gorm:"size:20;not null" json:"trigger"`
	Outcome    string `gorm:"size:20;not null;index" json:"outcome"`
	Generation uint64 `json:"generation"`
	Items      int    `json:"items"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
