package entity

import (
	"gorm.io/gorm"
)

type MenuSection struct {
	gorm.Model
	MenuID   uint   `json:"menuId"`
	Title    string `json:"title"`
	Kind     string `json:"kind"` // ดู SectionKind.go
	Position int    `json:"position"`

	Dishes []SectionDish `gorm:"foreignKey:SectionID" json:"-"`
}
