package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ItemStatus string

const (
	StatusToDo       ItemStatus = "To Do"
	StatusInProgress ItemStatus = "In Progress"
	StatusDone       ItemStatus = "Done"
)

// BoardColumns lists the sprint board columns in display order.
var BoardColumns = []ItemStatus{StatusToDo, StatusInProgress, StatusDone}

// ValidStatus reports whether s is a known board column.
func ValidStatus(s ItemStatus) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority normalizes a stored or submitted priority value. Legacy data
// encodes the sustainable modifier as a "+" suffix on the priority string
// ("Medium+", "High+"); the suffix is stripped here and reported separately
// so it is never persisted.
func ParsePriority(raw string) (Priority, bool, error) {
	value := strings.TrimSpace(raw)
	sustainable := strings.HasSuffix(value, "+")
	if sustainable {
		value = strings.TrimSuffix(value, "+")
	}

	p := Priority(value)
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, sustainable, nil
	}
	return "", false, fmt.Errorf("unknown priority %q", raw)
}

// PriorityLabel derives the display label, re-attaching the "+" suffix for
// sustainable items.
func PriorityLabel(p Priority, sustainable bool) string {
	if sustainable {
		return string(p) + "+"
	}
	return string(p)
}

// WorkItem is a product backlog entry. A nil SprintID means the item sits in
// the backlog, unassigned.
type WorkItem struct {
	ID                    uint64     `gorm:"primarykey" json:"id"`
	Title                 string     `gorm:"type:varchar(255);not null" json:"title"`
	Description           string     `gorm:"type:text;not null" json:"description"`
	Priority              Priority   `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Status                ItemStatus `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	StoryPoints           int        `gorm:"not null" json:"story_points"`
	SustainabilityPoints  int        `gorm:"not null;default:0" json:"sustainability_points"`
	Sustainable           bool       `gorm:"not null;default:false" json:"sustainable"`
	SustainabilityContext string     `gorm:"type:text" json:"sustainability_context,omitempty"`
	DefinitionOfDone      string     `gorm:"type:text" json:"definition_of_done,omitempty"`
	ProjectID             uint64     `gorm:"not null;index" json:"project_id"`
	SprintID              *uint64    `gorm:"index" json:"sprint_id"`
	AssignedTo            *uint64    `json:"assigned_to"`

	// Position within the (sprint, status) board column.
	Order int `gorm:"column:item_order;not null;default:0" json:"order"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Sprint   *Sprint       `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Assignee *User         `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Effects  []SusafEffect `gorm:"many2many:item_effects" json:"effects,omitempty"`
}
