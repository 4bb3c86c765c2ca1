package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/EricRode/EcoScrum/internal/dto"
	apierrors "github.com/EricRode/EcoScrum/internal/errors"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/gin-gonic/gin"
)

// SprintHandler coordinates sprint HTTP handlers.
type SprintHandler struct {
	sprintService *services.SprintService
}

// NewSprintHandler creates a new SprintHandler
func NewSprintHandler(sprintService *services.SprintService) *SprintHandler {
	return &SprintHandler{
		sprintService: sprintService,
	}
}

// CreateSprint creates a new sprint
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	type CreateSprintRequest struct {
		Name      string    `json:"name" binding:"required,max=255"`
		Goal      string    `json:"goal" binding:"required"`
		StartDate time.Time `json:"start_date" binding:"required"`
		EndDate   time.Time `json:"end_date" binding:"required"`
		ProjectID uint64    `json:"project_id" binding:"required"`
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(services.CreateSprintInput{
		Name:      req.Name,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSprintDTO(*sprint))
}

// GetSprint returns a sprint by ID
func (h *SprintHandler) GetSprint(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	sprint, err := h.sprintService.GetSprint(sprintID)
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

// SaveRetrospective attaches a retrospective to a sprint
func (h *SprintHandler) SaveRetrospective(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	type RetrospectiveRequest struct {
		GoalMet              string `json:"goal_met" binding:"required"`
		InefficientProcesses string `json:"inefficient_processes"`
		Improvements         string `json:"improvements"`
		TeamNotes            string `json:"team_notes"`
	}

	var req RetrospectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.SaveRetrospective(sprintID, services.SaveRetrospectiveInput{
		GoalMet:              models.GoalMet(req.GoalMet),
		InefficientProcesses: req.InefficientProcesses,
		Improvements:         req.Improvements,
		TeamNotes:            req.TeamNotes,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

// CompleteSprint marks a sprint as completed
func (h *SprintHandler) CompleteSprint(c *gin.Context) {
	sprintID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid sprint ID")
		return
	}

	sprint, err := h.sprintService.CompleteSprint(sprintID)
	if err != nil {
		respondSprintError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

func respondSprintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSprintNameRequired),
		errors.Is(err, services.ErrSprintGoalRequired),
		errors.Is(err, services.ErrSprintDatesRequired),
		errors.Is(err, services.ErrSprintDatesInverted),
		errors.Is(err, services.ErrRetroInvalidGoalMet):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSprintNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRetroAlreadySaved),
		errors.Is(err, services.ErrSprintAlreadyComplete):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
