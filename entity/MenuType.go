package entity

import "strings"

const (
	MenuTypeClosedConventional = "closed_conventional"
	MenuTypeClosedGroup        = "closed_group"
	MenuTypeALaCarte           = "a_la_carte"
	MenuTypeALaCarteGroup      = "a_la_carte_group"
	MenuTypeALaCarteTime       = "a_la_carte_time"
	MenuTypeSpecial            = "special"
)

// NormalizeMenuType รับค่าจาก FE ได้หลายแบบ แล้วบีบให้เหลือค่ามาตรฐาน
func NormalizeMenuType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case MenuTypeClosedGroup:
		return MenuTypeClosedGroup
	case MenuTypeALaCarte, "a_la_carta":
		return MenuTypeALaCarte
	case MenuTypeALaCarteGroup, "a_la_carta_grupo":
		return MenuTypeALaCarteGroup
	case MenuTypeALaCarteTime:
		return MenuTypeALaCarteTime
	case MenuTypeSpecial:
		return MenuTypeSpecial
	default:
		return MenuTypeClosedConventional
	}
}

// ราคาใส่ที่ระดับจานได้เฉพาะเมนูประเภท a la carte
func MenuTypeHasDishPrices(menuType string) bool {
	switch menuType {
	case MenuTypeALaCarte, MenuTypeALaCarteGroup, MenuTypeALaCarteTime:
		return true
	default:
		return false
	}
}
