package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/EricRode/EcoScrum/internal/dto"
	apierrors "github.com/EricRode/EcoScrum/internal/errors"
	"github.com/EricRode/EcoScrum/internal/middleware"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/EricRode/EcoScrum/internal/utils"
	"github.com/gin-gonic/gin"
)

// ItemHandler coordinates work item HTTP handlers, including board moves.
type ItemHandler struct {
	itemService  *services.ItemService
	boardService *services.BoardService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *services.ItemService, boardService *services.BoardService) *ItemHandler {
	return &ItemHandler{
		itemService:  itemService,
		boardService: boardService,
	}
}

// ListItems lists work items filtered by project, sprint, backlog, status or
// assignee query parameters.
func (h *ItemHandler) ListItems(c *gin.Context) {
	var filter repository.ItemFilter

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		filter.ProjectID = &projectID
	}
	if raw := c.Query("sprint_id"); raw != "" {
		sprintID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid sprint_id")
			return
		}
		filter.SprintID = &sprintID
	}
	if raw := c.Query("backlog"); raw != "" {
		backlog, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid backlog flag")
			return
		}
		filter.Backlog = backlog
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ItemStatus(raw)
		if !models.ValidStatus(status) {
			apierrors.BadRequest(c, "Unknown status")
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("assigned_to"); raw != "" {
		assignedTo, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		filter.AssignedTo = &assignedTo
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.itemService.ListItems(filter, params)
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": dto.ToItemDTOs(items),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateItem creates a new work item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	type CreateItemRequest struct {
		Title                 string   `json:"title" binding:"required,max=255"`
		Description           string   `json:"description" binding:"required"`
		Priority              string   `json:"priority"`
		Status                string   `json:"status"`
		StoryPoints           int      `json:"story_points" binding:"required"`
		SustainabilityPoints  int      `json:"sustainability_points"`
		Sustainable           bool     `json:"sustainable"`
		SustainabilityContext string   `json:"sustainability_context"`
		DefinitionOfDone      string   `json:"definition_of_done"`
		ProjectID             uint64   `json:"project_id" binding:"required"`
		SprintID              *uint64  `json:"sprint_id"`
		AssignedTo            *uint64  `json:"assigned_to"`
		EffectIDs             []uint64 `json:"effect_ids"`
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.CreateItem(services.CreateItemInput{
		Title:                 req.Title,
		Description:           req.Description,
		Priority:              req.Priority,
		Status:                models.ItemStatus(req.Status),
		StoryPoints:           req.StoryPoints,
		SustainabilityPoints:  req.SustainabilityPoints,
		Sustainable:           req.Sustainable,
		SustainabilityContext: req.SustainabilityContext,
		DefinitionOfDone:      req.DefinitionOfDone,
		ProjectID:             req.ProjectID,
		SprintID:              req.SprintID,
		AssignedTo:            req.AssignedTo,
		EffectIDs:             req.EffectIDs,
	})
	if err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToItemDTO(*item))
}

// GetItem returns the work item loaded by RequireItemAccess
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, exists := middleware.GetItem(c)
	if !exists {
		apierrors.InternalError(c, "Item not loaded")
		return
	}

	c.JSON(http.StatusOK, dto.ToItemDTO(item))
}

// UpdateItem applies a partial update to a work item. Absent fields are left
// unchanged; clear_sprint and clear_assignee null the respective references.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	item, exists := middleware.GetItem(c)
	if !exists {
		apierrors.InternalError(c, "Item not loaded")
		return
	}

	type UpdateItemRequest struct {
		Title                 *string  `json:"title"`
		Description           *string  `json:"description"`
		Priority              *string  `json:"priority"`
		Status                *string  `json:"status"`
		StoryPoints           *int     `json:"story_points"`
		SustainabilityPoints  *int     `json:"sustainability_points"`
		Sustainable           *bool    `json:"sustainable"`
		SustainabilityContext *string  `json:"sustainability_context"`
		DefinitionOfDone      *string  `json:"definition_of_done"`
		SprintID              *uint64  `json:"sprint_id"`
		ClearSprint           bool     `json:"clear_sprint"`
		AssignedTo            *uint64  `json:"assigned_to"`
		ClearAssignee         bool     `json:"clear_assignee"`
		EffectIDs             []uint64 `json:"effect_ids"`
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateItemInput{
		Title:                 req.Title,
		Description:           req.Description,
		Priority:              req.Priority,
		StoryPoints:           req.StoryPoints,
		SustainabilityPoints:  req.SustainabilityPoints,
		Sustainable:           req.Sustainable,
		SustainabilityContext: req.SustainabilityContext,
		DefinitionOfDone:      req.DefinitionOfDone,
		SprintID:              req.SprintID,
		ClearSprint:           req.ClearSprint,
		AssignedTo:            req.AssignedTo,
		ClearAssignee:         req.ClearAssignee,
		EffectIDs:             req.EffectIDs,
	}
	if req.Status != nil {
		status := models.ItemStatus(*req.Status)
		input.Status = &status
	}

	updated, err := h.itemService.UpdateItem(item.ID, input)
	if err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToItemDTO(*updated))
}

// DeleteItem deletes a work item
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	item, exists := middleware.GetItem(c)
	if !exists {
		apierrors.InternalError(c, "Item not loaded")
		return
	}

	if err := h.itemService.DeleteItem(item.ID); err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// MoveItem handles a board drop event for a work item
func (h *ItemHandler) MoveItem(c *gin.Context) {
	item, exists := middleware.GetItem(c)
	if !exists {
		apierrors.InternalError(c, "Item not loaded")
		return
	}

	type MoveItemRequest struct {
		SourceColumn string `json:"source_column" binding:"required"`
		SourceIndex  *int   `json:"source_index" binding:"required"`
		DestColumn   string `json:"dest_column" binding:"required"`
		DestIndex    *int   `json:"dest_index" binding:"required"`
	}

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	moved, err := h.boardService.MoveItem(services.MoveInput{
		ItemID:       item.ID,
		SourceColumn: models.ItemStatus(req.SourceColumn),
		SourceIndex:  *req.SourceIndex,
		DestColumn:   models.ItemStatus(req.DestColumn),
		DestIndex:    *req.DestIndex,
	})
	if err != nil {
		respondItemError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToItemDTO(*moved))
}

func respondItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemTitleRequired),
		errors.Is(err, services.ErrItemDescriptionRequired),
		errors.Is(err, services.ErrItemStoryPointsInvalid),
		errors.Is(err, services.ErrItemSustainabilityInvalid),
		errors.Is(err, services.ErrItemStatusInvalid),
		errors.Is(err, services.ErrItemPriorityInvalid),
		errors.Is(err, services.ErrMoveColumnInvalid),
		errors.Is(err, services.ErrMoveIndexInvalid):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrItemNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrItemNotOnBoard),
		errors.Is(err, services.ErrMoveSourceMismatch):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
