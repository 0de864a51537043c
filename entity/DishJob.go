package entity

import (
	"gorm.io/gorm"
)

// สถานะงาน AI image enhancement ต่อจาน (1 จาน : 1 แถว)
type DishJob struct {
	gorm.Model
	MenuID uint `json:"menuId"`
	DishID uint `gorm:"uniqueIndex" json:"dishId"`

	Requested         bool   `json:"requested"`
	Generating        bool   `json:"generating"`
	GeneratedImageURL string `json:"generatedImageUrl"`
	Message           string `json:"message"` // ข้อความ error ล่าสุด (ถ้ามี)
}
