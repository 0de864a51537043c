package entity

import (
	"gorm.io/gorm"
)

type Staff struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex" json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"` // "owner" | "admin"

	RestaurantID uint `json:"restaurantId"`
}
