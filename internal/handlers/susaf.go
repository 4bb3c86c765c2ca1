package handlers

import (
	"errors"
	"net/http"

	"github.com/EricRode/EcoScrum/internal/dto"
	apierrors "github.com/EricRode/EcoScrum/internal/errors"
	"github.com/EricRode/EcoScrum/internal/middleware"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/gin-gonic/gin"
)

// SusafHandler exposes the project-scoped SusAF integration endpoints.
type SusafHandler struct {
	susafService *services.SusafService
}

// NewSusafHandler creates a new SusafHandler
func NewSusafHandler(susafService *services.SusafService) *SusafHandler {
	return &SusafHandler{
		susafService: susafService,
	}
}

// GetEffects lists the project's cached sustainability effects
func (h *SusafHandler) GetEffects(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	effects, err := h.susafService.ListEffects(project.ID)
	if err != nil {
		respondSusafError(c, err)
		return
	}

	dtos := make([]dto.EffectDTO, len(effects))
	for i, effect := range effects {
		dtos[i] = dto.ToEffectDTO(effect)
	}

	c.JSON(http.StatusOK, gin.H{
		"effects": dtos,
	})
}

// SyncEffects refreshes the project's effect cache from the upstream
func (h *SusafHandler) SyncEffects(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	effects, err := h.susafService.SyncEffects(c.Request.Context(), project.ID)
	if err != nil {
		respondSusafError(c, err)
		return
	}

	dtos := make([]dto.EffectDTO, len(effects))
	for i, effect := range effects {
		dtos[i] = dto.ToEffectDTO(effect)
	}

	c.JSON(http.StatusOK, gin.H{
		"effects": dtos,
	})
}

// SyncRecommendations fetches improvement recommendations from the upstream
func (h *SusafHandler) SyncRecommendations(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	recommendations, err := h.susafService.SyncRecommendations(c.Request.Context(), project.ID)
	if err != nil {
		respondSusafError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
	})
}

// GetToken reports whether a SusAF token is stored for the project. The token
// itself is never echoed back.
func (h *SusafHandler) GetToken(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	_, err := h.susafService.GetToken(project.ID)
	if err != nil {
		if errors.Is(err, services.ErrSusafTokenMissing) {
			c.JSON(http.StatusOK, gin.H{
				"configured": false,
			})
			return
		}
		respondSusafError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": true,
	})
}

// SetToken stores the project's SusAF API token
func (h *SusafHandler) SetToken(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not loaded")
		return
	}

	type SetTokenRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req SetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.susafService.SetToken(project.ID, req.Token); err != nil {
		respondSusafError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token saved successfully",
	})
}

func respondSusafError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSusafNotConfigured),
		errors.Is(err, services.ErrSusafTokenMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSusafUpstream):
		apierrors.BadGateway(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
