package editor

import (
	"github.com/google/uuid"

	"github.com/jaivial/backofficereact-sub001/entity"
)

// JobState คือสถานะงาน AI enhancement ที่ tracker เป็นเจ้าของ
// sync reconciler ห้ามแตะ field พวกนี้
type JobState struct {
	Requested         bool
	Generating        bool
	GeneratedImageURL string
}

type Dish struct {
	ClientID string // id ฝั่ง client, คงที่ตลอด session
	ID       uint   // id ฝั่ง server, 0 = ยังไม่บันทึก

	CatalogDishID      *uint
	Title              string
	Description        string
	DescriptionEnabled bool
	Allergens          []string
	SupplementEnabled  bool
	SupplementPrice    *float64
	Price              *float64
	Active             bool
	Position           int
	FotoURL            string

	Job JobState
}

type Section struct {
	ClientID string
	ID       uint

	Title    string
	Kind     string
	Position int
	Expanded bool // UI อย่างเดียว ไม่ persist

	Dishes []Dish
}

type Document struct {
	MenuID   uint
	Title    string
	Price    float64
	Active   bool
	MenuType string
	Subtitle []string
	Settings entity.MenuSettings

	Sections []Section
}

func newClientID() string { return uuid.NewString() }

// --- clone helpers: ทุก mutation คืน snapshot ใหม่ ไม่แก้ของเดิม ---

func cloneDish(d Dish) Dish {
	out := d
	out.Allergens = append([]string(nil), d.Allergens...)
	if d.SupplementPrice != nil {
		v := *d.SupplementPrice
		out.SupplementPrice = &v
	}
	if d.Price != nil {
		v := *d.Price
		out.Price = &v
	}
	if d.CatalogDishID != nil {
		v := *d.CatalogDishID
		out.CatalogDishID = &v
	}
	return out
}

func cloneSection(s Section) Section {
	out := s
	out.Dishes = make([]Dish, len(s.Dishes))
	for i, d := range s.Dishes {
		out.Dishes[i] = cloneDish(d)
	}
	return out
}

func cloneDocument(d Document) Document {
	out := d
	out.Subtitle = append([]string(nil), d.Subtitle...)
	out.Settings.Comments = append([]string(nil), d.Settings.Comments...)
	if p := d.Settings.Beverage.PricePerPerson; p != nil {
		v := *p
		out.Settings.Beverage.PricePerPerson = &v
	}
	if p := d.Settings.Beverage.SupplementPrice; p != nil {
		v := *p
		out.Settings.Beverage.SupplementPrice = &v
	}
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = cloneSection(s)
	}
	return out
}

// ตำแหน่งต้องต่อเนื่อง 0..n-1 เสมอ
func renumberSections(d *Document) {
	for i := range d.Sections {
		d.Sections[i].Position = i
	}
}

func renumberDishes(s *Section) {
	for i := range s.Dishes {
		s.Dishes[i].Position = i
	}
}

func addSection(d Document, title, kind string) (Document, string) {
	out := cloneDocument(d)
	sec := Section{
		ClientID: newClientID(),
		Title:    title,
		Kind:     kind,
		Expanded: true,
		Dishes:   []Dish{},
	}
	out.Sections = append(out.Sections, sec)
	renumberSections(&out)
	return out, sec.ClientID
}

func removeSection(d Document, clientID string) Document {
	out := cloneDocument(d)
	kept := out.Sections[:0]
	for _, s := range out.Sections {
		if s.ClientID != clientID {
			kept = append(kept, s)
		}
	}
	out.Sections = kept
	renumberSections(&out)
	return out
}

// moveSection ย้าย section ไป index ใหม่ (identity ของตัวอื่นไม่เปลี่ยน)
func moveSection(d Document, clientID string, to int) Document {
	out := cloneDocument(d)
	from := -1
	for i, s := range out.Sections {
		if s.ClientID == clientID {
			from = i
			break
		}
	}
	if from < 0 {
		return out
	}
	if to < 0 {
		to = 0
	}
	if to >= len(out.Sections) {
		to = len(out.Sections) - 1
	}
	sec := out.Sections[from]
	out.Sections = append(out.Sections[:from], out.Sections[from+1:]...)
	out.Sections = append(out.Sections[:to], append([]Section{sec}, out.Sections[to:]...)...)
	renumberSections(&out)
	return out
}

func patchSection(d Document, clientID string, fn func(*Section)) Document {
	out := cloneDocument(d)
	for i := range out.Sections {
		if out.Sections[i].ClientID == clientID {
			fn(&out.Sections[i])
			break
		}
	}
	return out
}

func addDish(d Document, sectionClientID string) (Document, string) {
	out := cloneDocument(d)
	dishID := ""
	for i := range out.Sections {
		if out.Sections[i].ClientID != sectionClientID {
			continue
		}
		dish := Dish{
			ClientID:  newClientID(),
			Allergens: []string{},
			Active:    true,
		}
		out.Sections[i].Dishes = append(out.Sections[i].Dishes, dish)
		renumberDishes(&out.Sections[i])
		dishID = dish.ClientID
		break
	}
	return out, dishID
}

func removeDish(d Document, sectionClientID, dishClientID string) Document {
	out := cloneDocument(d)
	for i := range out.Sections {
		if out.Sections[i].ClientID != sectionClientID {
			continue
		}
		sec := &out.Sections[i]
		kept := sec.Dishes[:0]
		for _, dd := range sec.Dishes {
			if dd.ClientID != dishClientID {
				kept = append(kept, dd)
			}
		}
		sec.Dishes = kept
		renumberDishes(sec)
		break
	}
	return out
}

// reorderDishes รับ "ลำดับใหม่ของ client id" — จานที่ไม่อยู่ใน order ถูกต่อท้ายตามลำดับเดิม
func reorderDishes(d Document, sectionClientID string, order []string) Document {
	out := cloneDocument(d)
	for i := range out.Sections {
		if out.Sections[i].ClientID != sectionClientID {
			continue
		}
		sec := &out.Sections[i]
		byID := make(map[string]Dish, len(sec.Dishes))
		for _, dd := range sec.Dishes {
			byID[dd.ClientID] = dd
		}
		next := make([]Dish, 0, len(sec.Dishes))
		for _, id := range order {
			if dd, ok := byID[id]; ok {
				next = append(next, dd)
				delete(byID, id)
			}
		}
		for _, dd := range sec.Dishes {
			if _, left := byID[dd.ClientID]; left {
				next = append(next, dd)
			}
		}
		sec.Dishes = next
		renumberDishes(sec)
		break
	}
	return out
}

func patchDish(d Document, sectionClientID, dishClientID string, fn func(*Dish)) Document {
	out := cloneDocument(d)
	for i := range out.Sections {
		if out.Sections[i].ClientID != sectionClientID {
			continue
		}
		for j := range out.Sections[i].Dishes {
			if out.Sections[i].Dishes[j].ClientID == dishClientID {
				fn(&out.Sections[i].Dishes[j])
				break
			}
		}
		break
	}
	return out
}

func findSection(d *Document, clientID string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ClientID == clientID {
			return &d.Sections[i]
		}
	}
	return nil
}

func findDish(s *Section, clientID string) *Dish {
	for i := range s.Dishes {
		if s.Dishes[i].ClientID == clientID {
			return &s.Dishes[i]
		}
	}
	return nil
}

func findDishByServerID(d *Document, id uint) *Dish {
	if id == 0 {
		return nil
	}
	for i := range d.Sections {
		for j := range d.Sections[i].Dishes {
			if d.Sections[i].Dishes[j].ID == id {
				return &d.Sections[i].Dishes[j]
			}
		}
	}
	return nil
}
