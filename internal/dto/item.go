package dto

import (
	"time"

	"github.com/EricRode/EcoScrum/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// EffectDTO represents a synced SusAF effect in API responses
type EffectDTO struct {
	ID          uint64               `json:"id"`
	ExternalID  string               `json:"external_id"`
	Category    models.SusafCategory `json:"category"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
}

// ItemDTO represents a work item in API responses. PriorityLabel carries the
// derived "+"-suffixed display form; the stored priority stays clean.
type ItemDTO struct {
	ID                    uint64            `json:"id"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	Priority              models.Priority   `json:"priority"`
	PriorityLabel         string            `json:"priority_label"`
	Status                models.ItemStatus `json:"status"`
	StoryPoints           int               `json:"story_points"`
	SustainabilityPoints  int               `json:"sustainability_points"`
	Sustainable           bool              `json:"sustainable"`
	SustainabilityContext string            `json:"sustainability_context,omitempty"`
	DefinitionOfDone      string            `json:"definition_of_done,omitempty"`
	ProjectID             uint64            `json:"project_id"`
	SprintID              *uint64           `json:"sprint_id"`
	AssignedTo            *uint64           `json:"assigned_to"`
	Order                 int               `json:"order"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	Assignee              *UserDTO          `json:"assignee,omitempty"`
	Effects               []EffectDTO       `json:"effects,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
}

// ToEffectDTO converts a SusafEffect model to EffectDTO
func ToEffectDTO(effect models.SusafEffect) EffectDTO {
	return EffectDTO{
		ID:          effect.ID,
		ExternalID:  effect.ExternalID,
		Category:    effect.Category,
		Title:       effect.Title,
		Description: effect.Description,
	}
}

// ToItemDTO converts a WorkItem model to ItemDTO
func ToItemDTO(item models.WorkItem) ItemDTO {
	dto := ItemDTO{
		ID:                    item.ID,
		Title:                 item.Title,
		Description:           item.Description,
		Priority:              item.Priority,
		PriorityLabel:         models.PriorityLabel(item.Priority, item.Sustainable),
		Status:                item.Status,
		StoryPoints:           item.StoryPoints,
		SustainabilityPoints:  item.SustainabilityPoints,
		Sustainable:           item.Sustainable,
		SustainabilityContext: item.SustainabilityContext,
		DefinitionOfDone:      item.DefinitionOfDone,
		ProjectID:             item.ProjectID,
		SprintID:              item.SprintID,
		AssignedTo:            item.AssignedTo,
		Order:                 item.Order,
		CreatedAt:             item.CreatedAt,
		UpdatedAt:             item.UpdatedAt,
	}

	// Include assignee if preloaded
	if item.Assignee != nil && item.Assignee.ID != 0 {
		assignee := ToUserDTO(*item.Assignee)
		dto.Assignee = &assignee
	}

	// Include effects if preloaded
	if len(item.Effects) > 0 {
		dto.Effects = make([]EffectDTO, len(item.Effects))
		for i, effect := range item.Effects {
			dto.Effects[i] = ToEffectDTO(effect)
		}
	}

	return dto
}

// ToItemDTOs converts a slice of work items
func ToItemDTOs(items []models.WorkItem) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i, item := range items {
		dtos[i] = ToItemDTO(item)
	}
	return dtos
}
