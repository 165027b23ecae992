package models

import "time"

type FurnitureType string

const (
	FurnitureFurnished     FurnitureType = "furnished"
	FurnitureSemiFurnished FurnitureType = "semi_furnished"
	FurnitureUnfurnished   FurnitureType = "unfurnished"
)

func ValidFurnitureType(t FurnitureType) bool {
	switch t {
	case FurnitureFurnished, FurnitureSemiFurnished, FurnitureUnfurnished:
		return true
	}
	return false
}

type Property struct {
	ID            uint          `gorm:"primaryKey"`
	LandlordID    uint          `gorm:"index;not null"`
	Landlord      User          `gorm:"foreignKey:LandlordID"`
	Title         string        `gorm:"size:200;not null"`
	Description   string        `gorm:"size:2000"`
	Address       string        `gorm:"size:300;not null"`
	Price         float64       `gorm:"not null"`
	BedroomCount  int           `gorm:"not null"`
	BathroomCount int           `gorm:"not null"`
	FurnitureType FurnitureType `gorm:"size:20;not null"`
	ImageURLs     string        `gorm:"size:4000"` // JSON array of URLs
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
