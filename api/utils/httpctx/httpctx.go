package httpctx

import "github.com/gin-gonic/gin"

const userIDKey = "userID"

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok && uid != 0
}

// OptionalUserID is CurrentUserID as a pointer, nil for anonymous requests.
func OptionalUserID(c *gin.Context) *uint {
	uid, ok := CurrentUserID(c)
	if !ok {
		return nil
	}
	return &uid
}
