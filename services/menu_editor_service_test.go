package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/repository"
)

func newTestService(t *testing.T) (*MenuEditorService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.Menu{},
		&entity.MenuSection{},
		&entity.SectionDish{},
		&entity.CatalogDish{},
	))
	svc := NewMenuEditorService(
		repository.NewMenuRepository(db),
		repository.NewSectionRepository(db),
		repository.NewCatalogRepository(db),
	)
	return svc, db
}

func seedMenu(t *testing.T, db *gorm.DB, restaurantID uint, menuType string) *entity.Menu {
	t.Helper()
	menu := entity.Menu{
		RestaurantID: restaurantID,
		Title:        "Menu del dia",
		Price:        25,
		Draft:        true,
		MenuType:     menuType,
	}
	require.NoError(t, db.Create(&menu).Error)
	return &menu
}

func seedSection(t *testing.T, db *gorm.DB, menuID uint, title string, pos int) *entity.MenuSection {
	t.Helper()
	sec := entity.MenuSection{MenuID: menuID, Title: title, Kind: entity.SectionKindCustom, Position: pos}
	require.NoError(t, db.Create(&sec).Error)
	return &sec
}

func TestPatchBasicsRejectsEmptyTitle(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)

	err := svc.PatchBasics(1, menu.ID, entity.MenuBasicsPayload{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyMenuTitle)

	// ค่าเดิมต้องไม่ถูกแตะ
	doc, err := svc.GetDocument(1, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Menu del dia", doc.Title)
}

func TestPatchBasicsRoundTrips(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)

	settings := entity.DefaultMenuSettings()
	settings.MinPartySize = 8
	err := svc.PatchBasics(1, menu.ID, entity.MenuBasicsPayload{
		Title:    "Menu degustacion",
		Price:    55,
		MenuType: entity.MenuTypeClosedConventional,
		Subtitle: []string{"bebida incluida"},
		Settings: settings,
	})
	require.NoError(t, err)

	doc, err := svc.GetDocument(1, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Menu degustacion", doc.Title)
	assert.Equal(t, 55.0, doc.Price)
	assert.Equal(t, entity.MenuTypeClosedConventional, doc.MenuType)
	assert.Equal(t, []string{"bebida incluida"}, doc.Subtitle)
	assert.Equal(t, 8, doc.Settings.MinPartySize)
}

func TestPatchBasicsIsTenantScoped(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)

	// ร้านอื่นแก้เมนูร้านนี้ไม่ได้
	err := svc.PatchBasics(2, menu.ID, entity.MenuBasicsPayload{Title: "Hackeado"})
	require.NoError(t, err) // gorm Updates แถวศูนย์แถวไม่ถือเป็น error

	doc, err := svc.GetDocument(1, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Menu del dia", doc.Title)

	_, err = svc.GetDocument(2, menu.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReplaceSectionsKeepListSemantics(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)
	s1 := seedSection(t, db, menu.ID, "Entrantes", 0)
	s2 := seedSection(t, db, menu.ID, "Principales", 1)

	// จานใน section ที่กำลังจะโดนตัดต้องหายตาม
	require.NoError(t, db.Create(&entity.SectionDish{
		MenuID: menu.ID, SectionID: s2.ID, Title: "Entrecot", Active: true,
	}).Error)

	out, err := svc.ReplaceSections(1, menu.ID, []entity.SectionPayload{
		{ID: s1.ID, Title: "Para empezar", Kind: "entrantes"},
		{Title: "Postres", Kind: "postres"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, s1.ID, out[0].ID)
	assert.Equal(t, "Para empezar", out[0].Title)
	assert.NotZero(t, out[1].ID)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 1, out[1].Position)

	var sections int64
	db.Model(&entity.MenuSection{}).Where("menu_id = ?", menu.ID).Count(&sections)
	assert.EqualValues(t, 2, sections)
	var orphans int64
	db.Model(&entity.SectionDish{}).Where("section_id = ?", s2.ID).Count(&orphans)
	assert.Zero(t, orphans, "จานของ section ที่ถูกตัดต้องถูกลบ")
}

func TestReplaceSectionsRequiresAtLeastOne(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)

	_, err := svc.ReplaceSections(1, menu.ID, nil)
	assert.ErrorIs(t, err, ErrNoSections)
}

func TestReplaceDishesResponseFollowsSentOrder(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeALaCarte)
	sec := seedSection(t, db, menu.ID, "Arroces", 0)

	price := 14.5
	out, err := svc.ReplaceDishes(1, menu.ID, sec.ID, []entity.DishPayload{
		{Title: "Paella", Price: &price, Active: true, Allergens: []string{"marisco"}},
		{Title: "Arroz negro", Active: true},
		{Title: "   ", Active: true}, // ไม่มีชื่อ → ถูกข้าม
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Paella", out[0].Title)
	assert.Equal(t, "Arroz negro", out[1].Title)
	assert.NotZero(t, out[0].ID)
	assert.Equal(t, 0, out[0].Position)
	assert.Equal(t, 1, out[1].Position)
	require.NotNil(t, out[0].Price)
	assert.Equal(t, 14.5, *out[0].Price)
	assert.Equal(t, []string{"marisco"}, out[0].Allergens)

	// ส่งชุดใหม่ที่เก็บจานเดิมหนึ่งจาน → id เดิมคงอยู่ อีกจานโดนลบ
	kept := out[0]
	out2, err := svc.ReplaceDishes(1, menu.ID, sec.ID, []entity.DishPayload{
		{ID: out[1].ID, Title: "Arroz negro", Active: true},
		{ID: kept.ID, Title: "Paella valenciana", Price: &price, Active: true},
	})
	require.NoError(t, err)
	require.Len(t, out2, 2)
	assert.Equal(t, out[1].ID, out2[0].ID)
	assert.Equal(t, kept.ID, out2[1].ID)
	assert.Equal(t, "Paella valenciana", out2[1].Title)

	var total int64
	db.Model(&entity.SectionDish{}).Where("section_id = ?", sec.ID).Count(&total)
	assert.EqualValues(t, 2, total)
}

func TestDishPricesNulledForClosedMenus(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)
	sec := seedSection(t, db, menu.ID, "Principales", 0)

	price := 18.0
	out, err := svc.ReplaceDishes(1, menu.ID, sec.ID, []entity.DishPayload{
		{Title: "Dorada", Price: &price, Active: true},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Price, "เมนูราคาตายตัวห้ามมีราคา per-dish")
}

func TestPatchDishUpdatesValuesOnly(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeALaCarte)
	sec := seedSection(t, db, menu.ID, "Postres", 0)

	out, err := svc.ReplaceDishes(1, menu.ID, sec.ID, []entity.DishPayload{
		{Title: "Flan", Active: true},
		{Title: "Tarta", Active: true},
	})
	require.NoError(t, err)

	patched, err := svc.PatchDish(1, menu.ID, sec.ID, out[0].ID, entity.DishPayload{
		Title:              "Flan casero",
		Description:        "con nata",
		DescriptionEnabled: true,
		Active:             true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Flan casero", patched.Title)
	assert.True(t, patched.DescriptionEnabled)
	assert.Equal(t, 0, patched.Position, "patch ห้ามแตะ position")

	var total int64
	db.Model(&entity.SectionDish{}).Where("section_id = ?", sec.ID).Count(&total)
	assert.EqualValues(t, 2, total)
}

func TestPatchDishUnknownIDIsNotFound(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeALaCarte)
	sec := seedSection(t, db, menu.ID, "Postres", 0)

	_, err := svc.PatchDish(1, menu.ID, sec.ID, 9999, entity.DishPayload{Title: "Fantasma"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertCatalogDishDeduplicatesByTitle(t *testing.T) {
	svc, _ := newTestService(t)

	id1, err := svc.UpsertCatalogDish(1, entity.CatalogDishPayload{Title: "Croquetas", Description: "caseras"})
	require.NoError(t, err)
	id2, err := svc.UpsertCatalogDish(1, entity.CatalogDishPayload{Title: "Croquetas", Description: "de jamon"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	// ร้านอื่นชื่อเดียวกันเป็นคนละ record
	id3, err := svc.UpsertCatalogDish(2, entity.CatalogDishPayload{Title: "Croquetas"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestPublishValidatesMenu(t *testing.T) {
	svc, db := newTestService(t)
	menu := seedMenu(t, db, 1, entity.MenuTypeClosedGroup)

	assert.ErrorIs(t, svc.Publish(1, menu.ID), ErrNoSections)

	seedSection(t, db, menu.ID, "Entrantes", 0)
	require.NoError(t, svc.Publish(1, menu.ID))

	doc, err := svc.GetDocument(1, menu.ID)
	require.NoError(t, err)
	assert.True(t, doc.Active)
	assert.False(t, doc.Draft)
}
