package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	InviteCode  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedBy   uint64         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator User            `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Sprints []Sprint        `gorm:"foreignKey:ProjectID" json:"sprints,omitempty"`
	Items   []WorkItem      `gorm:"foreignKey:ProjectID" json:"items,omitempty"`
}
