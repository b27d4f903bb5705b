package middlewares

import (
	"net/http"
	"os"
	"strings"

	"RestaurantAdviser/api/auth"
	"RestaurantAdviser/api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TokenAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.ExtractTokenID(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Select("id").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets userID when a valid token for an existing user
// is present and lets anonymous requests through otherwise.
func OptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.ExtractToken(c.Request) == "" {
			c.Next()
			return
		}

		userID, err := auth.ExtractTokenID(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user models.User
		if err := db.Select("id").First(&user, userID).Error; err == nil {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

// CORSMiddleware allows the configured frontend plus local development.
func CORSMiddleware() gin.HandlerFunc {
	allowedOrigins := []string{"http://localhost:3000"}
	if frontend := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		for _, o := range allowedOrigins {
			if o == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", o)
				break
			}
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, X-CSRF-Token, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
