// repository/catalog_repository.go
package repository

import (
	"encoding/json"

	"github.com/jaivial/backofficereact-sub001/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

// Upsert: ชื่อซ้ำ (ร้านเดียวกัน) = อัปเดตของเดิม ไม่สร้างซ้ำ
func (r *CatalogRepository) Upsert(restaurantID uint, p entity.CatalogDishPayload) (*entity.CatalogDish, error) {
	allergens, err := json.Marshal(nonNilStrings(p.Allergens))
	if err != nil {
		return nil, err
	}

	var row entity.CatalogDish
	err = r.DB.Where("restaurant_id = ? AND title = ?", restaurantID, p.Title).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = entity.CatalogDish{
			RestaurantID:             restaurantID,
			Title:                    p.Title,
			Description:              p.Description,
			Allergens:                datatypes.JSON(allergens),
			DefaultSupplementEnabled: p.DefaultSupplementEnabled,
			DefaultSupplementPrice:   p.DefaultSupplementPrice,
		}
		if err := r.DB.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"description":                p.Description,
		"allergens":                  allergens,
		"default_supplement_enabled": p.DefaultSupplementEnabled,
		"default_supplement_price":   p.DefaultSupplementPrice,
	}
	if err := r.DB.Model(&row).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Search หาในแคตตาล็อกด้วยชื่อ (ใช้ตอน UI ให้เลือกจานเดิม)
func (r *CatalogRepository) Search(restaurantID uint, query string, limit int) ([]entity.CatalogDish, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var rows []entity.CatalogDish
	err := r.DB.
		Where("restaurant_id = ? AND title LIKE ?", restaurantID, "%"+query+"%").
		Order("title ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
