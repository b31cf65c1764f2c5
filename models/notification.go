package models

import "time"

// Notification is a persisted message directed at a single user. OnClick is
// the client route to navigate to when the notification is opened.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	OnClick   string    `gorm:"size:255" json:"onClick"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
