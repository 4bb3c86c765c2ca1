package middleware

import (
	"net/http"
	"strconv"

	"github.com/EricRode/EcoScrum/internal/constants"
	"github.com/EricRode/EcoScrum/internal/database"
	"github.com/EricRode/EcoScrum/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireItemAccess checks if the user has access to a work item.
// User must be a member of the item's project.
func RequireItemAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemIDStr := c.Param("id")
		itemID, err := strconv.ParseUint(itemIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid item ID",
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

		var item models.WorkItem
		if err := database.GetDB().
			Preload("Effects").
			Preload("Assignee").
			First(&item, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking item existence
		var member models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ?", item.ProjectID, userID).
			First(&member).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found",
			})
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyItem, item)
		c.Next()
	}
}

// GetItem retrieves the work item loaded by RequireItemAccess
func GetItem(c *gin.Context) (models.WorkItem, bool) {
	value, exists := c.Get(constants.ContextKeyItem)
	if !exists {
		return models.WorkItem{}, false
	}
	item, ok := value.(models.WorkItem)
	return item, ok
}
