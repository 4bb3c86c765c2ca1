package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrNotProjectMember    = errors.New("user is not a member of the project")
	ErrAlreadyMember       = errors.New("user is already a team member")
	ErrMemberNotFound      = errors.New("no user with that email")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
)

// ProjectService handles project and team membership business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	CreatorID   uint64
}

// CreateProject creates a project and enrolls the creator as project manager.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameRequired
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		InviteCode:  inviteCode,
		CreatedBy:   input.CreatorID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    input.CreatorID,
		Role:      models.RoleProjectManager,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to enroll project creator: %w", err)
	}

	return project, nil
}

// GetProject returns a project with members preloaded
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id, "Members", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjects lists projects the user is a member of
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// AddTeamMember adds an existing user to a project by email.
func (s *ProjectService) AddTeamMember(projectID uint64, email string, role models.ProjectRole) (*models.ProjectMember, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	member.User = *user
	return member, nil
}

// JoinByInviteCode enrolls the user into the project matching the code.
func (s *ProjectService) JoinByInviteCode(userID uint64, code string) (*models.Project, error) {
	project, err := s.projectRepo.FindByInviteCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if _, err := s.projectRepo.FindMember(project.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      models.RoleDeveloper,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to join project: %w", err)
	}

	return project, nil
}
