// services/enhance_service.go
package services

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/utils"
)

// JobBroadcaster คือขา push ของ hub — แยก interface ไว้กัน import วน (ws ใช้ services อยู่แล้ว)
type JobBroadcaster interface {
	BroadcastJob(menuID uint, msg entity.JobMessage)
}

// EnhanceService รับงานปรับรูปแล้วปล่อยผลกลับทาง push channel
// ตอนนี้ "AI" คือ worker จำลอง: หน่วงเวลาแล้วเสิร์ฟรูปที่อัปโหลดมา — โครง flow จริงครบ
type EnhanceService struct {
	Jobs      *repository.JobRepository
	Hub       JobBroadcaster
	UploadDir string
	Delay     time.Duration
}

func NewEnhanceService(jobs *repository.JobRepository, hub JobBroadcaster, uploadDir string, delay time.Duration) *EnhanceService {
	return &EnhanceService{Jobs: jobs, Hub: hub, UploadDir: uploadDir, Delay: delay}
}

// Request เป็น fire-and-forget: ตอบ accepted ทันที ผลตามไปทาง ws
func (s *EnhanceService) Request(menuID, dishID uint, img []byte) error {
	if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}

	if _, err := s.Jobs.MarkStarted(menuID, dishID); err != nil {
		return err
	}
	s.Hub.BroadcastJob(menuID, entity.JobMessage{
		Type:   entity.JobMsgStarted,
		MenuID: menuID,
		DishID: dishID,
	})

	go s.run(menuID, dishID, img)
	return nil
}

func (s *EnhanceService) run(menuID, dishID uint, img []byte) {
	time.Sleep(s.Delay)

	folder := filepath.Join(s.UploadDir, "enhanced")
	path, err := utils.SaveImageBytes(img, folder, ".jpg")
	if err != nil {
		log.Printf("enhance job dish=%d failed: %v", dishID, err)
		s.fail(menuID, dishID, "enhancement failed")
		return
	}
	url := "/" + filepath.ToSlash(path)

	if err := s.Jobs.MarkCompleted(dishID, url); err != nil {
		log.Printf("enhance job dish=%d save state failed: %v", dishID, err)
		s.fail(menuID, dishID, "enhancement failed")
		return
	}
	s.Hub.BroadcastJob(menuID, entity.JobMessage{
		Type:              entity.JobMsgCompleted,
		MenuID:            menuID,
		DishID:            dishID,
		GeneratedImageURL: url,
	})
}

func (s *EnhanceService) fail(menuID, dishID uint, message string) {
	if err := s.Jobs.MarkFailed(dishID, message); err != nil {
		log.Printf("enhance job dish=%d mark failed: %v", dishID, err)
	}
	s.Hub.BroadcastJob(menuID, entity.JobMessage{
		Type:    entity.JobMsgFailed,
		MenuID:  menuID,
		DishID:  dishID,
		Message: message,
	})
}
