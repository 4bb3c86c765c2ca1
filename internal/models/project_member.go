package models

import "time"

type ProjectRole string

const (
	RoleProjectManager ProjectRole = "Project Manager"
	RoleDeveloper      ProjectRole = "Developer"
	RoleDesigner       ProjectRole = "Designer"
)

type ProjectMember struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	UserID    uint64      `gorm:"primarykey" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(50);not null" json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
