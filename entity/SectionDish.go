package entity

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SectionDish struct {
	gorm.Model
	MenuID    uint `json:"menuId"`
	SectionID uint `json:"sectionId"`

	// อ้างอิงจานในแคตตาล็อกกลาง (null = ยังไม่ผูก)
	CatalogDishID *uint `json:"catalogDishId"`

	Title              string         `json:"title"`
	Description        string         `json:"description"`
	DescriptionEnabled bool           `json:"descriptionEnabled"`
	Allergens          datatypes.JSON `json:"allergens"` // []string

	SupplementEnabled bool     `json:"supplementEnabled"`
	SupplementPrice   *float64 `json:"supplementPrice"`

	// มีความหมายเฉพาะเมนูแบบ a la carte
	Price *float64 `json:"price"`

	Active   bool   `json:"active"`
	Position int    `json:"position"`
	FotoURL  string `json:"fotoUrl"`
}
