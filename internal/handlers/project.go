package handlers

import (
	"errors"
	"net/http"

	"github.com/EricRode/EcoScrum/internal/dto"
	apierrors "github.com/EricRode/EcoScrum/internal/errors"
	"github.com/EricRode/EcoScrum/internal/middleware"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	sprintService  *services.SprintService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService, sprintService *services.SprintService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		sprintService:  sprintService,
	}
}

// CreateProject creates a new project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project, true))
}

// ListProjects returns the current user's projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	dtos := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = dto.ToProjectDTO(project, false)
	}
	c.JSON(http.StatusOK, dtos)
}

// GetProject returns a project with its team members
// Membership is already verified by RequireProjectAccess middleware
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	full, err := h.projectService.GetProject(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*full, true))
}

// AddTeamMember adds an existing user to the project by email
func (h *ProjectHandler) AddTeamMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddTeamMember(project.ID, req.Email, models.ProjectRole(req.Role))
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// JoinProject enrolls the current user via invite code
func (h *ProjectHandler) JoinProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.JoinByInviteCode(userID, req.InviteCode)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project, false))
}

// ListProjectSprints returns the project's sprints, oldest first
func (h *ProjectHandler) ListProjectSprints(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	sprints, err := h.sprintService.ListSprints(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch sprints")
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTOs(sprints))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
