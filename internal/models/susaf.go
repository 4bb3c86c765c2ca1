package models

import (
	"time"

	"gorm.io/gorm"
)

type SusafCategory string

const (
	CategoryTechnical     SusafCategory = "Technical"
	CategoryEnvironmental SusafCategory = "Environmental"
	CategorySocial        SusafCategory = "Social"
	CategoryHuman         SusafCategory = "Human"
	CategoryCommunication SusafCategory = "Communication"
)

// SusafEffect is a sustainability-impact tag synced from the external SusAF
// assessment service. The upstream payload is opaque beyond these fields.
type SusafEffect struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ExternalID  string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_effects_project_external,priority:2" json:"external_id"`
	ProjectID   uint64         `gorm:"not null;uniqueIndex:idx_effects_project_external,priority:1" json:"project_id"`
	Category    SusafCategory  `gorm:"type:varchar(30)" json:"category"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// SusafToken stores the per-project API token for the SusAF upstream.
type SusafToken struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	Token     string    `gorm:"type:varchar(255);not null" json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}
