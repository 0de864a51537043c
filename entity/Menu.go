package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Menu struct {
	gorm.Model
	RestaurantID uint `json:"restaurantId"`

	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Active   bool    `json:"active"`
	Draft    bool    `json:"isDraft"`
	MenuType string  `json:"menuType"` // ดู MenuType.go

	// --- เก็บเป็น JSON column ---
	Subtitle datatypes.JSON `json:"subtitle"` // []string
	Settings datatypes.JSON `json:"settings"` // MenuSettings

	Sections []MenuSection `gorm:"foreignKey:MenuID" json:"-"`
}
