// utils/image.go
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ErrImageBudget = บีบยังไงก็ไม่ลง budget — ห้ามส่งรูปเกิน budget เงียบ ๆ เด็ดขาด
var ErrImageBudget = errors.New("image could not be compressed under byte budget")

// ลำดับ scale/quality ที่ไล่ลง — เจออันแรกที่อยู่ใน budget ก็จบ
var (
	compressScales    = []float64{1.0, 0.85, 0.7, 0.55, 0.4, 0.3}
	compressQualities = []int{82, 72, 62, 52, 42}
)

// CropSpec คือ crop แบบ zoom + pan ใน viewport จัตุรัส (หน่วยเป็นสัดส่วนของ viewport)
// แปลงเป็นพิกเซลของรูปต้นฉบับตอนประมวลผล
type CropSpec struct {
	Zoom    float64 // >= 1.0
	OffsetX float64 // -1..1 สัดส่วนจากกึ่งกลาง
	OffsetY float64
}

// CompressImage: decode -> ย่อเข้า maxEdge ครั้งเดียวถ้าใหญ่กว่า -> ไล่ scale x quality
// คืน jpeg ที่ <= budget ไม่งั้น ErrImageBudget
func CompressImage(src []byte, budget, maxEdge int) ([]byte, error) {
	return CompressImageCropped(src, nil, budget, maxEdge)
}

func CompressImageCropped(src []byte, crop *CropSpec, budget, maxEdge int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if crop != nil {
		img = applyCrop(img, crop)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	// ย่อครั้งแรกเข้า maxEdge
	if longEdge := max(w, h); maxEdge > 0 && longEdge > maxEdge {
		ratio := float64(maxEdge) / float64(longEdge)
		img = scaleImage(img, ratio)
		b = img.Bounds()
		w, h = b.Dx(), b.Dy()
	}

	for _, scale := range compressScales {
		scaled := img
		if scale < 1.0 {
			scaled = scaleImage(img, scale)
		}
		if scaled.Bounds().Dx() < 1 || scaled.Bounds().Dy() < 1 {
			continue
		}
		for _, q := range compressQualities {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: q}); err != nil {
				return nil, fmt.Errorf("encode jpeg: %w", err)
			}
			if buf.Len() <= budget {
				return buf.Bytes(), nil
			}
		}
	}
	return nil, ErrImageBudget
}

// applyCrop ตัดจัตุรัสตาม zoom/pan: ด้านที่มองเห็น = min(w,h)/zoom
// offset เป็นสัดส่วนของ viewport เทียบจากกึ่งกลาง
func applyCrop(img image.Image, crop *CropSpec) image.Image {
	zoom := crop.Zoom
	if zoom < 1.0 {
		zoom = 1.0
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	side := float64(min(w, h)) / zoom

	cx := float64(b.Min.X) + float64(w)/2 + crop.OffsetX*side
	cy := float64(b.Min.Y) + float64(h)/2 + crop.OffsetY*side

	x0 := int(cx - side/2)
	y0 := int(cy - side/2)
	x1 := x0 + int(side)
	y1 := y0 + int(side)

	if x0 < b.Min.X {
		x1 += b.Min.X - x0
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y1 += b.Min.Y - y0
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x0 -= x1 - b.Max.X
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y0 -= y1 - b.Max.Y
		y1 = b.Max.Y
	}
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}

	rect := image.Rect(0, 0, x1-x0, y1-y0)
	out := image.NewRGBA(rect)
	draw.Copy(out, image.Point{}, img, image.Rect(x0, y0, x1, y1), draw.Src, nil)
	return out
}

func scaleImage(img image.Image, ratio float64) image.Image {
	b := img.Bounds()
	w := int(float64(b.Dx()) * ratio)
	h := int(float64(b.Dy()) * ratio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
