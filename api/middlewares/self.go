package middlewares

import (
	"net/http"

	"RestaurantAdviser/api/models"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SelfOnlyMiddleware allows the request only when the :id path parameter
// names the authenticated user. It must run after TokenAuthMiddleware.
func SelfOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := httpctx.CurrentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		target, err := (&models.User{}).FindUserByIdentifier(db, c.Param("id"))
		if err != nil || target.ID != uid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
