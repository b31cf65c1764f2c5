package utils

import (
	"testing"

	"github.com/Konathalavenkat/AuctionSphereX/models"
)

func TestNotifyAdminsFanOut(t *testing.T) {
	db := newExpiryTestDB(t)

	users := []models.User{
		{Name: "a1", Email: "a1@example.com", Role: models.RoleAdmin},
		{Name: "u1", Email: "u1@example.com", Role: models.RoleUser},
		{Name: "a2", Email: "a2@example.com", Role: models.RoleAdmin},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed user %s: %v", users[i].Name, err)
		}
	}

	NotifyAdmins(db, "New Product", "A New product is added", "/admin")

	var notifications []models.Notification
	if err := db.Order("user_id").Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].UserID != users[0].ID || notifications[1].UserID != users[2].ID {
		t.Fatalf("fan-out hit wrong users: %d, %d", notifications[0].UserID, notifications[1].UserID)
	}
	for _, n := range notifications {
		if n.Title != "New Product" || n.OnClick != "/admin" || n.Read {
			t.Fatalf("unexpected notification %+v", n)
		}
	}
}

func TestNotifyUserDefaultsUnread(t *testing.T) {
	db := newExpiryTestDB(t)

	if err := NotifyUser(db, 7, "Product Status Updated", "Your product X has been approved", "/profile"); err != nil {
		t.Fatalf("notify user: %v", err)
	}

	var n models.Notification
	if err := db.First(&n).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if n.UserID != 7 || n.Read {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.OnClick != "/profile" {
		t.Fatalf("onclick = %q", n.OnClick)
	}
}
