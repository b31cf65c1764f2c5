package utils

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Konathalavenkat/AuctionSphereX/models"
)

// NotifyUser persists a single unread notification for the target user.
func NotifyUser(db *gorm.DB, userID uint, title, message, onClick string) error {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		OnClick: onClick,
		Read:    false,
	}
	return db.Create(&n).Error
}

// NotifyAdmins fans a notification out to every admin account. A failure for
// one admin never halts the rest; per-admin errors are aggregated and logged
// so partial failures stay observable.
func NotifyAdmins(db *gorm.DB, title, message, onClick string) {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		if Sugar != nil {
			Sugar.Errorf("admin notification fan-out: listing admins failed: %v", err)
		}
		return
	}

	var failed []string
	for _, admin := range admins {
		if err := NotifyUser(db, admin.ID, title, message, onClick); err != nil {
			failed = append(failed, fmt.Sprintf("admin %d: %v", admin.ID, err))
		}
	}
	if len(failed) > 0 && Sugar != nil {
		Sugar.Errorf("admin notification fan-out: %d/%d writes failed: %s",
			len(failed), len(admins), strings.Join(failed, "; "))
	}
}
