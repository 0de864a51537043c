package editor

import (
	"encoding/json"
	"strings"

	"github.com/jaivial/backofficereact-sub001/entity"
)

// fingerprint = JSON ของ field ชุด canonical ใช้เทียบความเปลี่ยนแปลงเท่านั้น
// ห้ามรวม field ฝั่ง UI (Expanded) กับ job state — พวกนั้นเปลี่ยนแล้วต้องไม่ trigger sync

type basicsKey struct {
	Title    string              `json:"t"`
	Price    float64             `json:"p"`
	Active   bool                `json:"a"`
	MenuType string              `json:"mt"`
	Subtitle []string            `json:"st"`
	Settings entity.MenuSettings `json:"s"`
}

func BasicsFingerprint(d *Document) string {
	k := basicsKey{
		Title:    d.Title,
		Price:    d.Price,
		Active:   d.Active,
		MenuType: d.MenuType,
		Subtitle: d.Subtitle,
		Settings: d.Settings,
	}
	if k.Subtitle == nil {
		k.Subtitle = []string{}
	}
	b, _ := json.Marshal(k)
	return string(b)
}

type sectionKey struct {
	ID       uint   `json:"id"`
	ClientID string `json:"cid"`
	Title    string `json:"t"`
	Kind     string `json:"k"`
	Position int    `json:"p"`
}

// StructureFingerprint จับการ rename / reorder / เพิ่มลบ section
func StructureFingerprint(d *Document) string {
	keys := make([]sectionKey, len(d.Sections))
	for i, s := range d.Sections {
		keys[i] = sectionKey{
			ID:       s.ID,
			ClientID: s.ClientID,
			Title:    strings.TrimSpace(s.Title),
			Kind:     s.Kind,
			Position: s.Position,
		}
	}
	b, _ := json.Marshal(keys)
	return string(b)
}

type dishKey struct {
	ID                 uint     `json:"id"`
	CatalogDishID      *uint    `json:"cat"`
	Title              string   `json:"t"`
	Description        string   `json:"d"`
	DescriptionEnabled bool     `json:"de"`
	Allergens          []string `json:"al"`
	SupplementEnabled  bool     `json:"se"`
	SupplementPrice    *float64 `json:"sp"`
	Price              *float64 `json:"pr"`
	Active             bool     `json:"a"`
	Position           int      `json:"p"`
}

func dishFingerprint(d *Dish) string {
	k := dishKey{
		ID:                 d.ID,
		CatalogDishID:      d.CatalogDishID,
		Title:              d.Title,
		Description:        d.Description,
		DescriptionEnabled: d.DescriptionEnabled,
		Allergens:          d.Allergens,
		SupplementEnabled:  d.SupplementEnabled,
		SupplementPrice:    d.SupplementPrice,
		Price:              d.Price,
		Active:             d.Active,
		Position:           d.Position,
	}
	if k.Allergens == nil {
		k.Allergens = []string{}
	}
	b, _ := json.Marshal(k)
	return string(b)
}

func SectionDishesFingerprint(s *Section) string {
	parts := make([]string, len(s.Dishes))
	for i := range s.Dishes {
		parts[i] = dishFingerprint(&s.Dishes[i])
	}
	b, _ := json.Marshal(parts)
	return string(b)
}
