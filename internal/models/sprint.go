package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type GoalMet string

const (
	GoalMetYes       GoalMet = "Yes"
	GoalMetNo        GoalMet = "No"
	GoalMetPartially GoalMet = "Partially"
)

// Retrospective is attached to a sprint once, after it ends.
type Retrospective struct {
	GoalMet              GoalMet `gorm:"type:varchar(20)" json:"goal_met"`
	InefficientProcesses string  `gorm:"type:text" json:"inefficient_processes"`
	Improvements         string  `gorm:"type:text" json:"improvements"`
	TeamNotes            string  `gorm:"type:text" json:"team_notes"`
}

// IDList is a denormalized list of work item IDs stored as a JSON array.
type IDList []uint64

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = IDList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for IDList: %T", value)
	}
}

type Sprint struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Goal      string    `gorm:"type:text;not null" json:"goal"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	// Derived fields, recomputed from the item collection. Never edited directly.
	Progress            int    `gorm:"not null;default:0" json:"progress"`
	SustainabilityScore int    `gorm:"not null;default:0" json:"sustainability_score"`
	EffectsTackled      int    `gorm:"not null;default:0" json:"effects_tackled"`
	ItemIDs             IDList `gorm:"column:item_ids;type:text" json:"items"`

	// Snapshot of the previous sprint's score at creation time, for trend charts.
	PreviousScore int `gorm:"not null;default:0" json:"previous_score"`

	Completed     bool           `gorm:"not null;default:false" json:"completed"`
	ProjectID     uint64         `gorm:"not null;index" json:"project_id"`
	Retrospective Retrospective  `gorm:"embedded;embeddedPrefix:retro_" json:"retrospective"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// HasRetrospective reports whether a retrospective has been saved for the sprint.
func (s *Sprint) HasRetrospective() bool {
	return s.Retrospective.GoalMet != ""
}

// ValidGoalMet reports whether v is one of the accepted retrospective outcomes.
func ValidGoalMet(v GoalMet) bool {
	switch v {
	case GoalMetYes, GoalMetNo, GoalMetPartially:
		return true
	}
	return false
}
