package entity

// DTO ที่ editor ฝั่ง client กับ backoffice API ใช้ร่วมกัน
// id = 0 แปลว่า entity ยังไม่เคยถูกบันทึกฝั่ง server

type MenuBasicsPayload struct {
	Title    string       `json:"title"`
	Price    float64      `json:"price"`
	Active   bool         `json:"active"`
	MenuType string       `json:"menuType"`
	Subtitle []string     `json:"subtitle"`
	Settings MenuSettings `json:"settings"`
}

type SectionPayload struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	Position int    `json:"position"`
}

type DishPayload struct {
	ID                 uint     `json:"id"`
	CatalogDishID      *uint    `json:"catalogDishId"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	DescriptionEnabled bool     `json:"descriptionEnabled"`
	Allergens          []string `json:"allergens"`
	SupplementEnabled  bool     `json:"supplementEnabled"`
	SupplementPrice    *float64 `json:"supplementPrice"`
	Price              *float64 `json:"price"`
	Active             bool     `json:"active"`
	Position           int      `json:"position"`
	FotoURL            string   `json:"fotoUrl,omitempty"`
}

type CatalogDishPayload struct {
	Title                    string   `json:"title"`
	Description              string   `json:"description"`
	Allergens                []string `json:"allergens"`
	DefaultSupplementEnabled bool     `json:"defaultSupplementEnabled"`
	DefaultSupplementPrice   *float64 `json:"defaultSupplementPrice"`
}
