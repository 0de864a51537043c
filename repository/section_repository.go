// repository/section_repository.go
package repository

import (
	"encoding/json"
	"fmt"

	"github.com/jaivial/backofficereact-sub001/entity"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

// ReplaceSections แทนโครง section ทั้งเมนูด้วย list ที่ส่งมา:
// id > 0 ที่มีอยู่ = update, id 0 = insert, ที่เหลือโดนลบ (จานลบตาม)
// คืน section ทั้งหมดหลังแทน เรียงตาม position — id ใหม่อยู่ในนี้
func (r *SectionRepository) ReplaceSections(restaurantID, menuID uint, in []entity.SectionPayload) ([]entity.MenuSection, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("at least one section is required")
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var owns int64
		if err := tx.Model(&entity.Menu{}).
			Where("id = ? AND restaurant_id = ?", menuID, restaurantID).
			Count(&owns).Error; err != nil {
			return err
		}
		if owns == 0 {
			return gorm.ErrRecordNotFound
		}

		existing := map[uint]bool{}
		var ids []uint
		if err := tx.Model(&entity.MenuSection{}).
			Where("menu_id = ?", menuID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			existing[id] = true
		}

		keep := make([]uint, 0, len(in))
		for idx, sec := range in {
			title := sec.Title
			if title == "" {
				title = "Seccion"
			}
			kind := entity.NormalizeSectionKind(sec.Kind)

			if sec.ID > 0 && existing[sec.ID] {
				if err := tx.Model(&entity.MenuSection{}).
					Where("id = ? AND menu_id = ?", sec.ID, menuID).
					Updates(map[string]interface{}{
						"title":    title,
						"kind":     kind,
						"position": idx,
					}).Error; err != nil {
					return err
				}
				keep = append(keep, sec.ID)
				continue
			}

			row := entity.MenuSection{MenuID: menuID, Title: title, Kind: kind, Position: idx}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			keep = append(keep, row.ID)
		}

		// ลบ section ที่ไม่อยู่ใน keep พร้อมจานข้างใน
		if err := tx.Where("menu_id = ? AND section_id NOT IN ?", menuID, keep).
			Delete(&entity.SectionDish{}).Error; err != nil {
			return err
		}
		return tx.Where("menu_id = ? AND id NOT IN ?", menuID, keep).
			Delete(&entity.MenuSection{}).Error
	})
	if err != nil {
		return nil, err
	}

	var out []entity.MenuSection
	if err := r.DB.Where("menu_id = ?", menuID).Order("position ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceDishes แทนจานทั้ง section เป็นชุดเดียว (ลำดับใน response ตรงกับที่ส่งมา)
func (r *SectionRepository) ReplaceDishes(restaurantID, menuID, sectionID uint, in []entity.DishPayload) ([]entity.SectionDish, error) {
	resultIDs := make([]uint, 0, len(in))

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var owns int64
		if err := tx.Model(&entity.MenuSection{}).
			Where("id = ? AND menu_id = ?", sectionID, menuID).
			Count(&owns).Error; err != nil {
			return err
		}
		if owns == 0 {
			return gorm.ErrRecordNotFound
		}

		existing := map[uint]bool{}
		var ids []uint
		if err := tx.Model(&entity.SectionDish{}).
			Where("section_id = ?", sectionID).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		for _, id := range ids {
			existing[id] = true
		}

		keep := make([]uint, 0, len(in))
		for idx, d := range in {
			if d.Title == "" {
				continue
			}
			allergens, err := json.Marshal(nonNilStrings(d.Allergens))
			if err != nil {
				return err
			}
			fields := map[string]interface{}{
				"catalog_dish_id":     d.CatalogDishID,
				"title":               d.Title,
				"description":         d.Description,
				"description_enabled": d.DescriptionEnabled,
				"allergens":           allergens,
				"supplement_enabled":  d.SupplementEnabled,
				"supplement_price":    d.SupplementPrice,
				"price":               d.Price,
				"active":              d.Active,
				"position":            idx,
			}

			if d.ID > 0 && existing[d.ID] {
				if err := tx.Model(&entity.SectionDish{}).
					Where("id = ? AND section_id = ?", d.ID, sectionID).
					Updates(fields).Error; err != nil {
					return err
				}
				keep = append(keep, d.ID)
				continue
			}

			row := entity.SectionDish{
				MenuID:             menuID,
				SectionID:          sectionID,
				CatalogDishID:      d.CatalogDishID,
				Title:              d.Title,
				Description:        d.Description,
				DescriptionEnabled: d.DescriptionEnabled,
				Allergens:          datatypes.JSON(allergens),
				SupplementEnabled:  d.SupplementEnabled,
				SupplementPrice:    d.SupplementPrice,
				Price:              d.Price,
				Active:             d.Active,
				Position:           idx,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			keep = append(keep, row.ID)
		}

		q := tx.Where("section_id = ?", sectionID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		if err := q.Delete(&entity.SectionDish{}).Error; err != nil {
			return err
		}
		resultIDs = keep
		return nil
	})
	if err != nil {
		return nil, err
	}

	// คืนตามลำดับที่ส่งมา ไม่ใช่ลำดับ DB
	var rows []entity.SectionDish
	if err := r.DB.Where("section_id = ?", sectionID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entity.SectionDish, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	out := make([]entity.SectionDish, 0, len(resultIDs))
	for _, id := range resultIDs {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// PatchDish อัปเดต field value ของจานเดียว (ไม่แตะ set membership / ลำดับ)
func (r *SectionRepository) PatchDish(restaurantID, menuID, sectionID, dishID uint, d entity.DishPayload) (*entity.SectionDish, error) {
	allergens, err := json.Marshal(nonNilStrings(d.Allergens))
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"catalog_dish_id":     d.CatalogDishID,
		"title":               d.Title,
		"description":         d.Description,
		"description_enabled": d.DescriptionEnabled,
		"allergens":           allergens,
		"supplement_enabled":  d.SupplementEnabled,
		"supplement_price":    d.SupplementPrice,
		"price":               d.Price,
		"active":              d.Active,
	}
	res := r.DB.Model(&entity.SectionDish{}).
		Where("id = ? AND section_id = ? AND menu_id = ?", dishID, sectionID, menuID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var row entity.SectionDish
	if err := r.DB.First(&row, dishID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindDish หา dish โดยไล่ความเป็นเจ้าของทั้งสาย restaurant → menu → section
func (r *SectionRepository) FindDish(restaurantID, menuID, sectionID, dishID uint) (*entity.SectionDish, error) {
	var row entity.SectionDish
	err := r.DB.
		Joins("JOIN menus ON menus.id = section_dishes.menu_id AND menus.restaurant_id = ?", restaurantID).
		Where("section_dishes.id = ? AND section_dishes.section_id = ? AND section_dishes.menu_id = ?", dishID, sectionID, menuID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SetDishFoto เซ็ต url รูปประจำจาน
func (r *SectionRepository) SetDishFoto(menuID, sectionID, dishID uint, fotoURL string) error {
	res := r.DB.Model(&entity.SectionDish{}).
		Where("id = ? AND section_id = ? AND menu_id = ?", dishID, sectionID, menuID).
		Update("foto_url", fotoURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
