// repository/menu_repository.go
package repository

import (
	"encoding/json"

	"github.com/jaivial/backofficereact-sub001/entity"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// ดึงเมนูเดียว (เช็คว่าเป็นของร้านนี้ด้วย)
func (r *MenuRepository) FindByID(restaurantID, menuID uint) (*entity.Menu, error) {
	var menu entity.Menu
	err := r.DB.
		Where("restaurant_id = ?", restaurantID).
		First(&menu, menuID).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// ดึงเมนูพร้อมโครง section/dish เรียงตาม position
func (r *MenuRepository) FindWithSections(restaurantID, menuID uint) (*entity.Menu, error) {
	var menu entity.Menu
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Sections.Dishes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("restaurant_id = ?", restaurantID).
		First(&menu, menuID).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// อัปเดต basics ทั้งชุดในครั้งเดียว
func (r *MenuRepository) UpdateBasics(restaurantID, menuID uint, p entity.MenuBasicsPayload) error {
	subtitle, err := json.Marshal(p.Subtitle)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"title":     p.Title,
		"price":     p.Price,
		"active":    p.Active,
		"menu_type": p.MenuType,
		"subtitle":  subtitle,
		"settings":  settings,
	}
	return r.DB.Model(&entity.Menu{}).
		Where("id = ? AND restaurant_id = ?", menuID, restaurantID).
		Updates(fields).Error
}

// Publish = พ้นสถานะ draft
func (r *MenuRepository) Publish(restaurantID, menuID uint) error {
	return r.DB.Model(&entity.Menu{}).
		Where("id = ? AND restaurant_id = ?", menuID, restaurantID).
		Updates(map[string]interface{}{"draft": false, "active": true}).Error
}
