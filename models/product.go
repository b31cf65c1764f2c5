package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Product statuses as set by admins during moderation.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusBlocked  = "blocked"
)

// StringList stores an ordered list of strings as a JSON text column.
type StringList []string

// Value implements driver.Valuer for gorm serialization.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for gorm deserialization.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
	if len(raw) == 0 {
		*s = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(s))
}

// Product represents a marketplace listing created by a seller.
// ExpiryTime is the absolute instant after which the product is removed
// automatically; nil means the listing never expires.
type Product struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	SellerID             uint       `gorm:"index;not null" json:"seller_id"`
	Name                 string     `gorm:"size:255;not null" json:"name"`
	Description          string     `gorm:"type:text" json:"description"`
	Price                float64    `gorm:"not null;default:0" json:"price"`
	Category             string     `gorm:"size:64;index" json:"category"`
	Age                  int        `gorm:"index" json:"age"` // age of the item in years
	BillAvailable        bool       `json:"billAvailable"`
	WarrantyAvailable    bool       `json:"warrantyAvailable"`
	AccessoriesAvailable bool       `json:"accessoriesAvailable"`
	BoxAvailable         bool       `json:"boxAvailable"`
	Status               string     `gorm:"size:16;index;default:'pending'" json:"status"`
	Images               StringList `gorm:"type:text" json:"images"`
	ExpiryTime           *time.Time `gorm:"index" json:"expiryTime"`
	CreatedAt            time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	Seller               User       `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seller"`
}

// BeforeCreate fills defaults so rows written outside the HTTP path stay consistent.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.Images == nil {
		p.Images = StringList{}
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}
