package configs

import (
	"encoding/json"
	"log"

	"github.com/jaivial/backofficereact-sub001/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// สร้าง staff เจ้าของร้านครั้งแรก
func SeedStaff() error {
	db := DB()
	email := getEnv("OWNER_EMAIL", "")
	pass := getEnv("OWNER_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding staff: missing OWNER_EMAIL/OWNER_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.Staff{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("staff already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	owner := entity.Staff{
		Email:        email,
		Password:     string(hash),
		FirstName:    "Owner",
		LastName:     "Seed",
		Role:         "owner",
		RestaurantID: 1,
	}
	return db.Create(&owner).Error
}

// Seed เมนู draft เปล่า ๆ ไว้ให้ editor เปิดได้เลยตอน dev
func SeedDemoMenu() error {
	db := DB()

	var count int64
	db.Model(&entity.Menu{}).Count(&count)
	if count > 0 {
		return nil
	}

	subtitle, _ := json.Marshal([]string{})
	settings, _ := json.Marshal(entity.DefaultMenuSettings())
	menu := entity.Menu{
		RestaurantID: 1,
		Title:        "Menu de grupos",
		Price:        35,
		Draft:        true,
		MenuType:     entity.MenuTypeClosedGroup,
		Subtitle:     datatypes.JSON(subtitle),
		Settings:     datatypes.JSON(settings),
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}
	sections := []entity.MenuSection{
		{MenuID: menu.ID, Title: "Entrantes", Kind: entity.SectionKindStarters, Position: 0},
		{MenuID: menu.ID, Title: "Principales", Kind: entity.SectionKindMains, Position: 1},
		{MenuID: menu.ID, Title: "Postres", Kind: entity.SectionKindDesserts, Position: 2},
	}
	return db.Create(&sections).Error
}
