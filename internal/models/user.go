package models

import "time"

type UserType string

const (
	UserTypeGuest    UserType = "guest"
	UserTypeLandlord UserType = "landlord"
	UserTypeAdmin    UserType = "admin"
)

func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeGuest, UserTypeLandlord, UserTypeAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:50;uniqueIndex;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Phone        string   `gorm:"size:30"`
	FullName     string   `gorm:"size:100;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	UserType     UserType `gorm:"size:20;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
