package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/equipehub/team-dashboard-api/internal/database"
	apierrors "github.com/equipehub/team-dashboard-api/internal/errors"
	"github.com/equipehub/team-dashboard-api/internal/models"
)

// RequireAdmin restricts a route to admin profiles. Department and profile
// administration is admin-only; everything else on the dashboard is shared
// by the whole team.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var profile models.Profile
		if err := database.GetDB().First(&profile, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if profile.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Only administrators can perform this action")
			c.Abort()
			return
		}

		c.Set("profile", profile)
		c.Next()
	}
}
