package entity

// MenuSettings คือ settings bag ของเมนู เก็บเป็น JSON column ใน Menu.Settings
type MenuSettings struct {
	Beverage     BeveragePolicy `json:"beverage"`
	MinPartySize int            `json:"minPartySize"`
	Comments     []string       `json:"comments"`
}

type BeveragePolicy struct {
	Type            string   `json:"type"` // "included" | "not_included" | "per_person"
	PricePerPerson  *float64 `json:"pricePerPerson"`
	HasSupplement   bool     `json:"hasSupplement"`
	SupplementPrice *float64 `json:"supplementPrice"`
}

func DefaultMenuSettings() MenuSettings {
	return MenuSettings{
		Beverage:     BeveragePolicy{Type: "not_included"},
		MinPartySize: 1,
		Comments:     []string{},
	}
}
