package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Avatar       string         `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedProjects []Project       `gorm:"foreignKey:CreatedBy" json:"-"`
	Memberships     []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
	AssignedItems   []WorkItem      `gorm:"foreignKey:AssignedTo" json:"-"`
}
