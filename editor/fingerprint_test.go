package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaivial/backofficereact-sub001/entity"
)

func testDocument() Document {
	price := 12.5
	return Document{
		MenuID:   1,
		Title:    "Menu de grupos",
		Price:    35,
		Active:   true,
		MenuType: entity.MenuTypeClosedGroup,
		Subtitle: []string{"IVA incluido"},
		Settings: entity.DefaultMenuSettings(),
		Sections: []Section{
			{
				ClientID: "s-1",
				ID:       10,
				Title:    "Entrantes",
				Kind:     entity.SectionKindStarters,
				Position: 0,
				Expanded: true,
				Dishes: []Dish{
					{
						ClientID:  "d-1",
						ID:        100,
						Title:     "Ensalada",
						Allergens: []string{"gluten"},
						Active:    true,
						Position:  0,
					},
					{
						ClientID: "d-2",
						ID:       101,
						Title:    "Croquetas",
						Price:    &price,
						Active:   true,
						Position: 1,
					},
				},
			},
		},
	}
}

func TestFingerprintStableOnUnmodifiedState(t *testing.T) {
	doc := testDocument()

	assert.Equal(t, BasicsFingerprint(&doc), BasicsFingerprint(&doc))
	assert.Equal(t, StructureFingerprint(&doc), StructureFingerprint(&doc))
	assert.Equal(t, SectionDishesFingerprint(&doc.Sections[0]), SectionDishesFingerprint(&doc.Sections[0]))

	// สำเนาอีกชุด (object identity คนละตัว) ต้องได้ byte เท่ากันเป๊ะ
	clone := cloneDocument(doc)
	assert.Equal(t, BasicsFingerprint(&doc), BasicsFingerprint(&clone))
	assert.Equal(t, StructureFingerprint(&doc), StructureFingerprint(&clone))
	assert.Equal(t, SectionDishesFingerprint(&doc.Sections[0]), SectionDishesFingerprint(&clone.Sections[0]))
}

func TestFingerprintIgnoresUIAndJobFields(t *testing.T) {
	doc := testDocument()
	structFP := StructureFingerprint(&doc)
	dishFP := SectionDishesFingerprint(&doc.Sections[0])

	doc.Sections[0].Expanded = false
	doc.Sections[0].Dishes[0].Job = JobState{Requested: true, Generating: true, GeneratedImageURL: "/x.jpg"}
	doc.Sections[0].Dishes[0].FotoURL = "/manual.jpg"

	assert.Equal(t, structFP, StructureFingerprint(&doc))
	assert.Equal(t, dishFP, SectionDishesFingerprint(&doc.Sections[0]))
}

func TestStructureFingerprintDetectsChange(t *testing.T) {
	doc := testDocument()
	base := StructureFingerprint(&doc)

	renamed := patchSection(doc, "s-1", func(s *Section) { s.Title = "Para empezar" })
	assert.NotEqual(t, base, StructureFingerprint(&renamed))

	added, _ := addSection(doc, "Postres", entity.SectionKindDesserts)
	assert.NotEqual(t, base, StructureFingerprint(&added))
}

func TestDishFingerprintDetectsValueAndOrderChange(t *testing.T) {
	doc := testDocument()
	base := SectionDishesFingerprint(&doc.Sections[0])

	edited := patchDish(doc, "s-1", "d-1", func(d *Dish) { d.Description = "con pollo" })
	assert.NotEqual(t, base, SectionDishesFingerprint(&edited.Sections[0]))

	reordered := reorderDishes(doc, "s-1", []string{"d-2", "d-1"})
	require.Equal(t, "d-2", reordered.Sections[0].Dishes[0].ClientID)
	assert.NotEqual(t, base, SectionDishesFingerprint(&reordered.Sections[0]))
}

func TestDescriptionEnabledDistinctFromEmpty(t *testing.T) {
	doc := testDocument()
	base := SectionDishesFingerprint(&doc.Sections[0])

	// description ว่างแต่เปิด flag ไว้ != ไม่มี description
	flagged := patchDish(doc, "s-1", "d-1", func(d *Dish) { d.DescriptionEnabled = true })
	assert.NotEqual(t, base, SectionDishesFingerprint(&flagged.Sections[0]))
}
