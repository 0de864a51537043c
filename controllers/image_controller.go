package controllers

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"

	"github.com/jaivial/backofficereact-sub001/pkg/resp"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/services"
	"github.com/jaivial/backofficereact-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// client บีบรูปมาแล้ว — server รับแค่ไม่เกินนี้ กันของหลุด budget มา
const maxUploadBytes = 300 * 1024

type ImageController struct {
	Sections  *repository.SectionRepository
	Enhance   *services.EnhanceService
	UploadDir string
}

func NewImageController(sections *repository.SectionRepository, enhance *services.EnhanceService, uploadDir string) *ImageController {
	return &ImageController{Sections: sections, Enhance: enhance, UploadDir: uploadDir}
}

type imageUploadRequest struct {
	Image []byte `json:"image" binding:"required"` // base64 ใน JSON
}

// POST /backoffice/menus/:id/sections/:sectionId/dishes/:dishId/image
func (ctl *ImageController) UploadDishImage(c *gin.Context) {
	menuID := paramUint(c, "id")
	sectionID := paramUint(c, "sectionId")
	dishID := paramUint(c, "dishId")

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if len(req.Image) > maxUploadBytes {
		resp.BadRequest(c, "image too large")
		return
	}
	if _, _, err := image.Decode(bytes.NewReader(req.Image)); err != nil {
		resp.BadRequest(c, "invalid image data")
		return
	}

	folder := filepath.Join(ctl.UploadDir, "dishes")
	path, err := utils.SaveImageBytes(req.Image, folder, ".jpg")
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	fotoURL := "/" + filepath.ToSlash(path)

	if err := ctl.Sections.SetDishFoto(menuID, sectionID, dishID, fotoURL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "dish not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"fotoUrl": fotoURL})
}

// POST /backoffice/menus/:id/sections/:sectionId/dishes/:dishId/image/enhance
// fire-and-forget: ตอบ accepted แล้วผลวิ่งกลับทาง push channel
func (ctl *ImageController) RequestEnhance(c *gin.Context) {
	menuID := paramUint(c, "id")
	sectionID := paramUint(c, "sectionId")
	dishID := paramUint(c, "dishId")

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if len(req.Image) > maxUploadBytes {
		resp.BadRequest(c, "image too large")
		return
	}

	// ตรวจสาย ownership ก่อนเปิด job — ไม่งั้น broadcast ข้ามร้านได้
	restID := utils.CurrentRestaurantID(c)
	if _, err := ctl.Sections.FindDish(restID, menuID, sectionID, dishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "dish not found")
			return
		}
		resp.ServerError(c, err)
		return
	}

	if err := ctl.Enhance.Request(menuID, dishID, req.Image); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"accepted": true})
}
