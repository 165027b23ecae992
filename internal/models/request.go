package models

import "time"

// Request is a contact/inquiry from a prospective tenant about a property.
// LandlordID is derived from the property server-side, never trusted from
// the payload.
type Request struct {
	ID             uint     `gorm:"primaryKey"`
	PropertyID     uint     `gorm:"index;not null"`
	Property       Property `gorm:"foreignKey:PropertyID"`
	LandlordID     uint     `gorm:"index;not null"`
	RequesterName  string   `gorm:"size:100;not null"`
	RequesterEmail string   `gorm:"size:100;not null"`
	RequesterPhone string   `gorm:"size:30"`
	Message        string   `gorm:"size:2000;not null"`
	IsRead         bool     `gorm:"not null;default:false"`
	CreatedAt      time.Time
}
