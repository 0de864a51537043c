package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// จานในแคตตาล็อกกลางของร้าน ใช้ซ้ำได้หลายเมนู
type CatalogDish struct {
	gorm.Model
	RestaurantID uint `json:"restaurantId"`

	Title       string         `json:"title"`
	Description string         `json:"description"`
	Allergens   datatypes.JSON `json:"allergens"` // []string

	DefaultSupplementEnabled bool     `json:"defaultSupplementEnabled"`
	DefaultSupplementPrice   *float64 `json:"defaultSupplementPrice"`
}
