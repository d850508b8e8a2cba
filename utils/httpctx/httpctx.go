package httpctx

import "github.com/gin-gonic/gin"

// CurrentUserID retrieves the authenticated user ID from the Gin context if
// the auth middleware resolved one.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest indicates whether the current request comes from an admin.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}
