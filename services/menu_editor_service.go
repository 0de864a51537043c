// services/menu_editor_service.go
package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/repository"
)

var (
	ErrEmptyMenuTitle = errors.New("menu title is required")
	ErrNoSections     = errors.New("at least one section is required")
)

type MenuEditorService struct {
	Menus    *repository.MenuRepository
	Sections *repository.SectionRepository
	Catalog  *repository.CatalogRepository
}

func NewMenuEditorService(menus *repository.MenuRepository, sections *repository.SectionRepository, catalog *repository.CatalogRepository) *MenuEditorService {
	return &MenuEditorService{Menus: menus, Sections: sections, Catalog: catalog}
}

// --- mapping entity -> wire payload ---

func sectionPayloadOf(s *entity.MenuSection) entity.SectionPayload {
	return entity.SectionPayload{
		ID:       s.ID,
		Title:    s.Title,
		Kind:     s.Kind,
		Position: s.Position,
	}
}

func dishPayloadOf(d *entity.SectionDish) entity.DishPayload {
	var allergens []string
	if len(d.Allergens) > 0 {
		json.Unmarshal(d.Allergens, &allergens)
	}
	if allergens == nil {
		allergens = []string{}
	}
	return entity.DishPayload{
		ID:                 d.ID,
		CatalogDishID:      d.CatalogDishID,
		Title:              d.Title,
		Description:        d.Description,
		DescriptionEnabled: d.DescriptionEnabled,
		Allergens:          allergens,
		SupplementEnabled:  d.SupplementEnabled,
		SupplementPrice:    d.SupplementPrice,
		Price:              d.Price,
		Active:             d.Active,
		Position:           d.Position,
		FotoURL:            d.FotoURL,
	}
}

// EditorDocument = payload ตอนเปิด editor: basics + โครงทั้งหมด
type EditorDocument struct {
	ID       uint                    `json:"id"`
	Title    string                  `json:"title"`
	Price    float64                 `json:"price"`
	Active   bool                    `json:"active"`
	Draft    bool                    `json:"isDraft"`
	MenuType string                  `json:"menuType"`
	Subtitle []string                `json:"subtitle"`
	Settings entity.MenuSettings     `json:"settings"`
	Sections []EditorDocumentSection `json:"sections"`
}

type EditorDocumentSection struct {
	entity.SectionPayload
	Dishes []entity.DishPayload `json:"dishes"`
}

func (s *MenuEditorService) GetDocument(restaurantID, menuID uint) (*EditorDocument, error) {
	menu, err := s.Menus.FindWithSections(restaurantID, menuID)
	if err != nil {
		return nil, err
	}

	var subtitle []string
	if len(menu.Subtitle) > 0 {
		json.Unmarshal(menu.Subtitle, &subtitle)
	}
	if subtitle == nil {
		subtitle = []string{}
	}
	settings := entity.DefaultMenuSettings()
	if len(menu.Settings) > 0 {
		json.Unmarshal(menu.Settings, &settings)
	}

	doc := &EditorDocument{
		ID:       menu.ID,
		Title:    menu.Title,
		Price:    menu.Price,
		Active:   menu.Active,
		Draft:    menu.Draft,
		MenuType: entity.NormalizeMenuType(menu.MenuType),
		Subtitle: subtitle,
		Settings: settings,
		Sections: make([]EditorDocumentSection, len(menu.Sections)),
	}
	for i := range menu.Sections {
		sec := &menu.Sections[i]
		out := EditorDocumentSection{
			SectionPayload: sectionPayloadOf(sec),
			Dishes:         make([]entity.DishPayload, len(sec.Dishes)),
		}
		for j := range sec.Dishes {
			out.Dishes[j] = dishPayloadOf(&sec.Dishes[j])
		}
		doc.Sections[i] = out
	}
	return doc, nil
}

func (s *MenuEditorService) PatchBasics(restaurantID, menuID uint, p entity.MenuBasicsPayload) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrEmptyMenuTitle
	}
	if p.Price < 0 {
		p.Price = 0
	}
	p.MenuType = entity.NormalizeMenuType(p.MenuType)
	if p.Settings.MinPartySize <= 0 {
		p.Settings.MinPartySize = 1
	}
	return s.Menus.UpdateBasics(restaurantID, menuID, p)
}

func (s *MenuEditorService) ReplaceSections(restaurantID, menuID uint, in []entity.SectionPayload) ([]entity.SectionPayload, error) {
	if len(in) == 0 {
		return nil, ErrNoSections
	}
	for i := range in {
		in[i].Title = strings.TrimSpace(in[i].Title)
		in[i].Kind = entity.NormalizeSectionKind(in[i].Kind)
	}
	rows, err := s.Sections.ReplaceSections(restaurantID, menuID, in)
	if err != nil {
		return nil, err
	}
	out := make([]entity.SectionPayload, len(rows))
	for i := range rows {
		out[i] = sectionPayloadOf(&rows[i])
	}
	return out, nil
}

// ราคา per-dish มีความหมายเฉพาะเมนู a la carte — ประเภทอื่น null ทิ้ง
func (s *MenuEditorService) normalizeDishPrices(restaurantID, menuID uint, dishes []entity.DishPayload) ([]entity.DishPayload, error) {
	menu, err := s.Menus.FindByID(restaurantID, menuID)
	if err != nil {
		return nil, err
	}
	if !entity.MenuTypeHasDishPrices(entity.NormalizeMenuType(menu.MenuType)) {
		for i := range dishes {
			dishes[i].Price = nil
		}
	}
	return dishes, nil
}

func (s *MenuEditorService) ReplaceDishes(restaurantID, menuID, sectionID uint, in []entity.DishPayload) ([]entity.DishPayload, error) {
	for i := range in {
		in[i].Title = strings.TrimSpace(in[i].Title)
		in[i].Description = strings.TrimSpace(in[i].Description)
	}
	in, err := s.normalizeDishPrices(restaurantID, menuID, in)
	if err != nil {
		return nil, err
	}
	rows, err := s.Sections.ReplaceDishes(restaurantID, menuID, sectionID, in)
	if err != nil {
		return nil, err
	}
	out := make([]entity.DishPayload, len(rows))
	for i := range rows {
		out[i] = dishPayloadOf(&rows[i])
	}
	return out, nil
}

func (s *MenuEditorService) PatchDish(restaurantID, menuID, sectionID, dishID uint, in entity.DishPayload) (*entity.DishPayload, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errors.New("dish title is required")
	}
	normalized, err := s.normalizeDishPrices(restaurantID, menuID, []entity.DishPayload{in})
	if err != nil {
		return nil, err
	}
	row, err := s.Sections.PatchDish(restaurantID, menuID, sectionID, dishID, normalized[0])
	if err != nil {
		return nil, err
	}
	out := dishPayloadOf(row)
	return &out, nil
}

func (s *MenuEditorService) UpsertCatalogDish(restaurantID uint, p entity.CatalogDishPayload) (uint, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return 0, errors.New("catalog dish title is required")
	}
	row, err := s.Catalog.Upsert(restaurantID, p)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *MenuEditorService) Publish(restaurantID, menuID uint) error {
	menu, err := s.Menus.FindWithSections(restaurantID, menuID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(menu.Title) == "" {
		return ErrEmptyMenuTitle
	}
	if len(menu.Sections) == 0 {
		return ErrNoSections
	}
	return s.Menus.Publish(restaurantID, menuID)
}
