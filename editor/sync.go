package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jaivial/backofficereact-sub001/entity"
)

var ErrEmptyTitle = errors.New("menu title must not be empty")

// --- basics sync ---

// syncBasics: ข้ามถ้า fingerprint เท่ากับที่ ack แล้ว หรือ payload เดียวกันกำลังบินอยู่
// ล้มเหลวแล้วไม่ retry เอง — รอ edit รอบถัดไปหรือ publish
func (s *Session) syncBasics(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	fp := BasicsFingerprint(&s.doc)
	if fp == s.ackedBasicsFP || fp == s.inflightBasicsFP {
		s.mu.Unlock()
		return nil
	}
	payload := basicsPayloadOf(&s.doc)
	menuID := s.doc.MenuID
	if payload.Title == "" {
		s.mu.Unlock()
		s.reportError(ErrEmptyTitle)
		return ErrEmptyTitle
	}
	s.inflightBasicsFP = fp
	s.mu.Unlock()

	err := s.transport.PatchBasics(ctx, menuID, payload)

	s.mu.Lock()
	if s.inflightBasicsFP == fp {
		s.inflightBasicsFP = ""
	}
	if err == nil && !s.closed {
		s.ackedBasicsFP = fp
	}
	s.mu.Unlock()

	if err != nil {
		s.reportError(fmt.Errorf("save basics: %w", err))
	}
	return err
}

// --- structure + dish sync ---

func sectionHasUnpersisted(snap *Document) bool {
	for i := range snap.Sections {
		if snap.Sections[i].ID == 0 {
			return true
		}
	}
	return false
}

func dishIDOrder(sec *Section) []uint {
	out := make([]uint, len(sec.Dishes))
	for i := range sec.Dishes {
		out[i] = sec.Dishes[i].ID
	}
	return out
}

func sameIDOrder(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allDishesPersisted(sec *Section) bool {
	for i := range sec.Dishes {
		if sec.Dishes[i].ID == 0 {
			return false
		}
	}
	return true
}

func dishPayloadOf(d *Dish) entity.DishPayload {
	al := d.Allergens
	if al == nil {
		al = []string{}
	}
	return entity.DishPayload{
		ID:                 d.ID,
		CatalogDishID:      d.CatalogDishID,
		Title:              strings.TrimSpace(d.Title),
		Description:        d.Description,
		DescriptionEnabled: d.DescriptionEnabled,
		Allergens:          al,
		SupplementEnabled:  d.SupplementEnabled,
		SupplementPrice:    d.SupplementPrice,
		Price:              d.Price,
		Active:             d.Active,
		Position:           d.Position,
	}
}

// syncStructure ตัดสินใจระหว่าง bulk replace กับ incremental patch ต่อ section
// ทุกครั้งประทับ sequence — ถ้ามี sync ใหม่กว่าเริ่มไปแล้ว ผลของรอบนี้จะถูกทิ้ง
// (ยกเว้น persisted id ที่เพิ่งได้ ซึ่งยังผูกกลับตาม client id ได้ปลอดภัย)
func (s *Session) syncStructure(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	snap := cloneDocument(s.doc)
	s.syncSeq++
	seq := s.syncSeq
	ackedStructFP := s.ackedStructureFP
	acks := make(map[string]sectionAck, len(s.dishAcks))
	for k, v := range s.dishAcks {
		acks[k] = v
	}
	s.mu.Unlock()

	structureChanged := StructureFingerprint(&snap) != ackedStructFP || sectionHasUnpersisted(&snap)

	if structureChanged {
		if err := s.putSections(ctx, seq, &snap); err != nil {
			s.reportError(fmt.Errorf("save sections: %w", err))
			return err
		}
	}

	var firstErr error
	for i := range snap.Sections {
		sec := &snap.Sections[i]
		fp := SectionDishesFingerprint(sec)
		ack, acked := acks[sec.ClientID]
		if acked && ack.fp == fp {
			continue
		}
		if !acked && len(sec.Dishes) == 0 {
			continue
		}

		// incremental ได้เฉพาะ: ไม่มี structural resync รอบนี้, ทุกจานมี persisted id,
		// และลำดับ id ไม่เปลี่ยนจากที่ ack ไว้ — นอกนั้น bulk replace เสมอ (ถึงจะแพงกว่า)
		incremental := !structureChanged && acked &&
			allDishesPersisted(sec) && sameIDOrder(dishIDOrder(sec), ack.order)

		var err error
		if incremental {
			err = s.patchChangedDishes(ctx, seq, snap.MenuID, sec, ack)
		} else {
			err = s.replaceSectionDishes(ctx, seq, snap.MenuID, sec)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if structureChanged && firstErr == nil {
		s.mu.Lock()
		if s.syncSeq == seq && !s.closed {
			s.ackedStructureFP = StructureFingerprint(&snap)
		}
		s.mu.Unlock()
	}
	return firstErr
}

// putSections ยิง bulk replace โครง section ทั้ง document แล้ว merge id ที่ server แจกกลับ
// ลง snapshot (ตาม position) และลง live document (ตาม client id)
func (s *Session) putSections(ctx context.Context, seq uint64, snap *Document) error {
	payload := make([]entity.SectionPayload, len(snap.Sections))
	for i := range snap.Sections {
		title := strings.TrimSpace(snap.Sections[i].Title)
		if title == "" {
			title = "Seccion"
		}
		payload[i] = entity.SectionPayload{
			ID:       snap.Sections[i].ID,
			Title:    title,
			Kind:     snap.Sections[i].Kind,
			Position: i,
		}
	}
	res, err := s.transport.PutSections(ctx, snap.MenuID, payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	for i := range res {
		if i >= len(snap.Sections) {
			break
		}
		snap.Sections[i].ID = res[i].ID
		// id ผูกกลับตาม client id เสมอ ต่อให้ผลรวมของรอบนี้ stale ไปแล้ว
		if live := findSection(&s.doc, snap.Sections[i].ClientID); live != nil && live.ID == 0 {
			live.ID = res[i].ID
		}
	}
	return nil
}

// patchChangedDishes ส่ง PATCH รายจาน เฉพาะจานที่ value fingerprint เปลี่ยน
func (s *Session) patchChangedDishes(ctx context.Context, seq uint64, menuID uint, sec *Section, ack sectionAck) error {
	for i := range sec.Dishes {
		d := &sec.Dishes[i]
		if ack.dishFP[d.ID] == dishFingerprint(d) {
			continue
		}
		if strings.TrimSpace(d.Title) == "" {
			continue // จานไม่มีชื่อยังไม่ persist การแก้
		}
		res, err := s.transport.PatchSectionDish(ctx, menuID, sec.ID, d.ID, dishPayloadOf(d))
		if err != nil {
			s.reportError(fmt.Errorf("save dish %q: %w", d.Title, err))
			return err
		}
		s.mergeDishResult(seq, sec.ClientID, d.ClientID, res, false)
	}
	s.ackSectionDishes(seq, sec)
	return nil
}

// replaceSectionDishes: จานที่ยังไม่มีทั้ง catalog id และ persisted id ต้อง upsert เข้า
// แคตตาล็อกก่อน แล้วค่อยส่งทั้ง list เป็น PUT เดียว
func (s *Session) replaceSectionDishes(ctx context.Context, seq uint64, menuID uint, sec *Section) error {
	if sec.ID == 0 {
		return fmt.Errorf("section %q has no persisted id", sec.Title)
	}

	sendable := make([]*Dish, 0, len(sec.Dishes))
	for i := range sec.Dishes {
		if strings.TrimSpace(sec.Dishes[i].Title) == "" {
			continue
		}
		sendable = append(sendable, &sec.Dishes[i])
	}

	for _, d := range sendable {
		if d.ID != 0 || d.CatalogDishID != nil {
			continue
		}
		catalogID, err := s.transport.UpsertCatalogDish(ctx, entity.CatalogDishPayload{
			Title:                    strings.TrimSpace(d.Title),
			Description:              d.Description,
			Allergens:                d.Allergens,
			DefaultSupplementEnabled: d.SupplementEnabled,
			DefaultSupplementPrice:   d.SupplementPrice,
		})
		if err != nil {
			s.reportError(fmt.Errorf("catalog upsert %q: %w", d.Title, err))
			return err
		}
		d.CatalogDishID = &catalogID
		s.mu.Lock()
		if live := s.findLiveDish(sec.ClientID, d.ClientID); live != nil && live.CatalogDishID == nil {
			id := catalogID
			live.CatalogDishID = &id
		}
		s.mu.Unlock()
	}

	payload := make([]entity.DishPayload, len(sendable))
	for i, d := range sendable {
		payload[i] = dishPayloadOf(d)
		payload[i].Position = i
	}
	res, err := s.transport.PutSectionDishes(ctx, menuID, sec.ID, payload)
	if err != nil {
		s.reportError(fmt.Errorf("save dishes of %q: %w", sec.Title, err))
		return err
	}

	// response เรียงตาม payload ที่ส่ง — merge กลับตาม index แล้วผูกด้วย client id
	for i := range res {
		if i >= len(sendable) {
			break
		}
		sendable[i].ID = res[i].ID
		s.mergeDishResult(seq, sec.ClientID, sendable[i].ClientID, &res[i], true)
	}
	s.ackSectionDishes(seq, sec)
	return nil
}

// mergeDishResult ผูกผลจาก server กลับเข้า live dish แบบ field-level:
// แตะเฉพาะ field ที่ server ตอบ ไม่ทับ Job/Expanded/การแก้ไขที่ใหม่กว่า
// id salvage ทำเสมอ (ผูกตาม client id) ส่วน field อื่นทำเฉพาะตอนผลยังไม่ stale
func (s *Session) mergeDishResult(seq uint64, sectionClientID, dishClientID string, res *entity.DishPayload, assignID bool) {
	if res == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	live := s.findLiveDish(sectionClientID, dishClientID)
	if live == nil {
		return
	}
	if assignID && live.ID == 0 && res.ID != 0 {
		live.ID = res.ID
	}
	if s.syncSeq != seq {
		return // stale — เก็บแค่ id
	}
	if res.CatalogDishID != nil && live.CatalogDishID == nil {
		id := *res.CatalogDishID
		live.CatalogDishID = &id
	}
	if res.FotoURL != "" {
		live.FotoURL = res.FotoURL
	}
}

// ackSectionDishes บันทึกลำดับ id + value fingerprint ของสิ่งที่เพิ่งส่งสำเร็จ
// เพื่อให้การตัดสิน incremental vs bulk รอบหน้าถูกต้อง
func (s *Session) ackSectionDishes(seq uint64, sec *Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.syncSeq != seq {
		return
	}
	s.dishAcks[sec.ClientID] = buildSectionAck(sec)
}

func (s *Session) findLiveDish(sectionClientID, dishClientID string) *Dish {
	sec := findSection(&s.doc, sectionClientID)
	if sec == nil {
		return nil
	}
	return findDish(sec, dishClientID)
}
