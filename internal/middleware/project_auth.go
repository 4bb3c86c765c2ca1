package middleware

import (
	"net/http"
	"strconv"

	"github.com/EricRode/EcoScrum/internal/constants"
	"github.com/EricRode/EcoScrum/internal/database"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireProjectAccess checks if the user is a member of the project. The
// project ID is read from the named URL parameter.
func RequireProjectAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param(param)
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid project ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking project existence
		var member models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&member).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Project not found",
			})
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
