package entity

import "strings"

const (
	SectionKindStarters  = "entrantes"
	SectionKindMains     = "principales"
	SectionKindDesserts  = "postres"
	SectionKindRice      = "arroces"
	SectionKindBeverages = "bebidas"
	SectionKindCustom    = "custom"
)

func NormalizeSectionKind(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SectionKindStarters, "starter", "starters":
		return SectionKindStarters
	case SectionKindMains, "main", "mains":
		return SectionKindMains
	case "postre", SectionKindDesserts, "dessert", "desserts":
		return SectionKindDesserts
	case SectionKindRice, "rice":
		return SectionKindRice
	case SectionKindBeverages, "beverages", "drinks":
		return SectionKindBeverages
	default:
		return SectionKindCustom
	}
}
