package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/models"
	"github.com/Konathalavenkat/AuctionSphereX/utils"
)

// NotificationController exposes read-only access to a user's notifications.
// Notifications are created by the emitter only; read-state toggling is a
// client concern handled elsewhere.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a new NotificationController instance.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// List returns the authenticated user's notifications, newest first.
func (n *NotificationController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Fail(ctx, "unauthorized")
		return
	}

	var notifications []models.Notification
	if err := n.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		utils.Fail(ctx, err.Error())
		return
	}

	utils.OK(ctx, notifications)
}
