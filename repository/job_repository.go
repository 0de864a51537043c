// repository/job_repository.go
package repository

import (
	"github.com/jaivial/backofficereact-sub001/entity"
	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// สถานะ job ของทุกจานในเมนู — ใช้ทำ hello/snapshot ตอน client ต่อ ws เข้ามา
func (r *JobRepository) SnapshotByMenu(menuID uint) ([]entity.DishJob, error) {
	var rows []entity.DishJob
	err := r.DB.Where("menu_id = ?", menuID).Find(&rows).Error
	return rows, err
}

// MarkStarted: จานนี้มี job กำลังวิ่ง (สร้างแถวถ้ายังไม่มี)
func (r *JobRepository) MarkStarted(menuID, dishID uint) (*entity.DishJob, error) {
	var row entity.DishJob
	err := r.DB.Where("dish_id = ?", dishID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = entity.DishJob{MenuID: menuID, DishID: dishID, Requested: true, Generating: true}
		if err := r.DB.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.DB.Model(&row).Updates(map[string]interface{}{
		"requested":  true,
		"generating": true,
		"message":    "",
	}).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *JobRepository) MarkCompleted(dishID uint, generatedURL string) error {
	return r.DB.Model(&entity.DishJob{}).
		Where("dish_id = ?", dishID).
		Updates(map[string]interface{}{
			"generating":          false,
			"generated_image_url": generatedURL,
			"message":             "",
		}).Error
}

func (r *JobRepository) MarkFailed(dishID uint, message string) error {
	return r.DB.Model(&entity.DishJob{}).
		Where("dish_id = ?", dishID).
		Updates(map[string]interface{}{
			"generating": false,
			"message":    message,
		}).Error
}
