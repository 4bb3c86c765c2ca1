package dto

import (
	"time"

	"github.com/EricRode/EcoScrum/internal/models"
)

// RetrospectiveDTO represents a sprint retrospective in API responses
type RetrospectiveDTO struct {
	GoalMet              models.GoalMet `json:"goal_met"`
	InefficientProcesses string         `json:"inefficient_processes"`
	Improvements         string         `json:"improvements"`
	TeamNotes            string         `json:"team_notes"`
}

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID                  uint64            `json:"id"`
	Name                string            `json:"name"`
	Goal                string            `json:"goal"`
	StartDate           time.Time         `json:"start_date"`
	EndDate             time.Time         `json:"end_date"`
	Progress            int               `json:"progress"`
	SustainabilityScore int               `json:"sustainability_score"`
	PreviousScore       int               `json:"previous_score"`
	EffectsTackled      int               `json:"effects_tackled"`
	Items               models.IDList     `json:"items"`
	Completed           bool              `json:"completed"`
	ProjectID           uint64            `json:"project_id"`
	Retrospective       *RetrospectiveDTO `json:"retrospective,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// ProjectMemberDTO represents a team member in API responses
type ProjectMemberDTO struct {
	UserID   uint64             `json:"user_id"`
	Role     models.ProjectRole `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
	User     *UserDTO           `json:"user,omitempty"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InviteCode  string             `json:"invite_code,omitempty"`
	CreatedBy   uint64             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	Members     []ProjectMemberDTO `json:"members,omitempty"`
}

// ToSprintDTO converts a Sprint model to SprintDTO
func ToSprintDTO(sprint models.Sprint) SprintDTO {
	dto := SprintDTO{
		ID:                  sprint.ID,
		Name:                sprint.Name,
		Goal:                sprint.Goal,
		StartDate:           sprint.StartDate,
		EndDate:             sprint.EndDate,
		Progress:            sprint.Progress,
		SustainabilityScore: sprint.SustainabilityScore,
		PreviousScore:       sprint.PreviousScore,
		EffectsTackled:      sprint.EffectsTackled,
		Items:               sprint.ItemIDs,
		Completed:           sprint.Completed,
		ProjectID:           sprint.ProjectID,
		CreatedAt:           sprint.CreatedAt,
		UpdatedAt:           sprint.UpdatedAt,
	}

	if dto.Items == nil {
		dto.Items = models.IDList{}
	}

	if sprint.HasRetrospective() {
		dto.Retrospective = &RetrospectiveDTO{
			GoalMet:              sprint.Retrospective.GoalMet,
			InefficientProcesses: sprint.Retrospective.InefficientProcesses,
			Improvements:         sprint.Retrospective.Improvements,
			TeamNotes:            sprint.Retrospective.TeamNotes,
		}
	}

	return dto
}

// ToSprintDTOs converts a slice of sprints
func ToSprintDTOs(sprints []models.Sprint) []SprintDTO {
	dtos := make([]SprintDTO, len(sprints))
	for i, sprint := range sprints {
		dtos[i] = ToSprintDTO(sprint)
	}
	return dtos
}

// ToProjectMemberDTO converts a ProjectMember model to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	dto := ProjectMemberDTO{
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
	if member.User.ID != 0 {
		user := ToUserDTO(member.User)
		dto.User = &user
	}
	return dto
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project, includeInviteCode bool) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = project.InviteCode
	}
	if len(project.Members) > 0 {
		dto.Members = make([]ProjectMemberDTO, len(project.Members))
		for i, member := range project.Members {
			dto.Members[i] = ToProjectMemberDTO(member)
		}
	}
	return dto
}
