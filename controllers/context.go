package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/Konathalavenkat/AuctionSphereX/middleware"
)

// getUserID reads the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// getRole reads the token role set by the auth middleware.
func getRole(ctx *gin.Context) string {
	value, exists := ctx.Get(middleware.ContextRoleKey)
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
