package editor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/utils"
)

type Config struct {
	BasicsDebounce    time.Duration
	StructureDebounce time.Duration

	ReconnectBase      time.Duration
	ReconnectCap       time.Duration
	ReconnectJitter    time.Duration
	ReconnectMinUptime time.Duration

	ImageBudget   int // byte budget รูปทั่วไป
	EnhanceBudget int // byte budget รูปที่ส่งเข้า AI enhancement
	MaxImageEdge  int
}

func DefaultConfig() Config {
	return Config{
		BasicsDebounce:     500 * time.Millisecond,
		StructureDebounce:  700 * time.Millisecond,
		ReconnectBase:      time.Second,
		ReconnectCap:       30 * time.Second,
		ReconnectJitter:    250 * time.Millisecond,
		ReconnectMinUptime: 5 * time.Second,
		ImageBudget:        200 * 1024,
		EnhanceBudget:      150 * 1024,
		MaxImageEdge:       1500,
	}
}

// MenuBasics คือ field ชุด basics ที่แก้ผ่าน UpdateBasics
type MenuBasics struct {
	Title    string
	Price    float64
	Active   bool
	MenuType string
	Subtitle []string
	Settings entity.MenuSettings
}

// สถานะ ack ของ dish sync ต่อ section — ใช้ตัดสิน incremental vs bulk รอบถัดไป
type sectionAck struct {
	fp     string
	order  []uint
	dishFP map[uint]string
}

// Session ถือ state ทั้งหมดของ editor หนึ่งครั้ง: document, fingerprint ที่ ack แล้ว,
// ตัวนับ sequence, scheduler, tracker — ไม่มี global ref ลอย ๆ
type Session struct {
	cfg       Config
	transport Transport
	clock     Clock

	mu  sync.Mutex
	doc Document

	sched   *Scheduler
	tracker *JobTracker

	ackedBasicsFP    string
	inflightBasicsFP string
	ackedStructureFP string
	dishAcks         map[string]sectionAck

	syncSeq uint64 // sequence ของ structure sync ล่าสุดที่เริ่มไป

	closed   bool
	onError  func(error)
	onChange func()
}

type SessionOption func(*Session)

// OnError ตั้ง callback สำหรับ error ที่ต้องโชว์ผู้ใช้ (save ล้ม, บีบรูปไม่ลง, ฯลฯ)
func OnError(fn func(error)) SessionOption {
	return func(s *Session) { s.onError = fn }
}

// OnChange ถูกเรียกทุกครั้งที่ document เปลี่ยน ให้ UI ไป Snapshot() มา render ใหม่
func OnChange(fn func()) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession เปิด session จาก document ที่โหลดมาจาก server แล้ว
// ถือว่า state ตอนเปิด = state ที่ server รู้อยู่ จึง ack fingerprint ทั้งหมดทันที
func NewSession(doc Document, transport Transport, clock Clock, cfg Config, opts ...SessionOption) *Session {
	s := &Session{
		cfg:       cfg,
		transport: transport,
		clock:     clock,
		doc:       cloneDocument(doc),
		dishAcks:  map[string]sectionAck{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ackedBasicsFP = BasicsFingerprint(&s.doc)
	s.ackedStructureFP = StructureFingerprint(&s.doc)
	for i := range s.doc.Sections {
		sec := &s.doc.Sections[i]
		s.dishAcks[sec.ClientID] = buildSectionAck(sec)
	}
	s.sched = NewScheduler(clock, cfg.BasicsDebounce, cfg.StructureDebounce, s.fireDomain)
	return s
}

func buildSectionAck(sec *Section) sectionAck {
	ack := sectionAck{
		fp:     SectionDishesFingerprint(sec),
		order:  make([]uint, len(sec.Dishes)),
		dishFP: make(map[uint]string, len(sec.Dishes)),
	}
	for i := range sec.Dishes {
		ack.order[i] = sec.Dishes[i].ID
		if sec.Dishes[i].ID != 0 {
			ack.dishFP[sec.Dishes[i].ID] = dishFingerprint(&sec.Dishes[i])
		}
	}
	return ack
}

// Snapshot คืนสำเนา document ปัจจุบันให้ UI ใช้ render
func (s *Session) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDocument(s.doc)
}

func (s *Session) reportError(err error) {
	if err == nil {
		return
	}
	log.Printf("editor: %v", err)
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *Session) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// --- mutations: ทุกตัวสร้าง snapshot ใหม่ + restart debounce ของโดเมนตัวเอง ---

func (s *Session) UpdateBasics(fn func(*MenuBasics)) {
	s.mu.Lock()
	b := MenuBasics{
		Title:    s.doc.Title,
		Price:    s.doc.Price,
		Active:   s.doc.Active,
		MenuType: s.doc.MenuType,
		Subtitle: append([]string(nil), s.doc.Subtitle...),
		Settings: s.doc.Settings,
	}
	fn(&b)
	next := cloneDocument(s.doc)
	next.Title = b.Title
	next.Price = b.Price
	next.Active = b.Active
	next.MenuType = entity.NormalizeMenuType(b.MenuType)
	next.Subtitle = b.Subtitle
	next.Settings = b.Settings
	s.doc = next
	s.sched.Schedule(DomainBasics)
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) AddSection(title, kind string) string {
	s.mu.Lock()
	next, clientID := addSection(s.doc, title, entity.NormalizeSectionKind(kind))
	s.doc = next
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
	return clientID
}

func (s *Session) RemoveSection(clientID string) {
	s.mu.Lock()
	s.doc = removeSection(s.doc, clientID)
	delete(s.dishAcks, clientID)
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) MoveSection(clientID string, to int) {
	s.mu.Lock()
	s.doc = moveSection(s.doc, clientID, to)
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) RenameSection(clientID, title string) {
	s.mu.Lock()
	s.doc = patchSection(s.doc, clientID, func(sec *Section) { sec.Title = title })
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) SetSectionKind(clientID, kind string) {
	s.mu.Lock()
	s.doc = patchSection(s.doc, clientID, func(sec *Section) {
		sec.Kind = entity.NormalizeSectionKind(kind)
	})
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

// Expanded เป็น field ฝั่ง UI — เปลี่ยนแล้วห้าม schedule sync
func (s *Session) SetSectionExpanded(clientID string, expanded bool) {
	s.mu.Lock()
	s.doc = patchSection(s.doc, clientID, func(sec *Section) { sec.Expanded = expanded })
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) AddDish(sectionClientID string) string {
	s.mu.Lock()
	next, dishID := addDish(s.doc, sectionClientID)
	s.doc = next
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
	return dishID
}

func (s *Session) RemoveDish(sectionClientID, dishClientID string) {
	s.mu.Lock()
	s.doc = removeDish(s.doc, sectionClientID, dishClientID)
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

func (s *Session) ReorderDishes(sectionClientID string, order []string) {
	s.mu.Lock()
	s.doc = reorderDishes(s.doc, sectionClientID, order)
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

// UpdateDish แก้ field เนื้อหาของจาน — fn ห้ามแตะ ClientID/ID/Job
func (s *Session) UpdateDish(sectionClientID, dishClientID string, fn func(*Dish)) {
	s.mu.Lock()
	s.doc = patchDish(s.doc, sectionClientID, dishClientID, fn)
	s.sched.Schedule(DomainStructure)
	s.mu.Unlock()
	s.notifyChange()
}

// --- forced sync / publish ---

// ForceSync ข้าม debounce: sync ทั้งสองโดเมนเดี๋ยวนี้
func (s *Session) ForceSync(ctx context.Context) error {
	s.sched.Cancel(DomainBasics)
	s.sched.Cancel(DomainStructure)
	if err := s.syncBasics(ctx); err != nil {
		return err
	}
	return s.syncStructure(ctx)
}

// Publish บังคับ sync ทั้งหมดก่อน แล้วค่อยยิง publish
func (s *Session) Publish(ctx context.Context) error {
	if err := s.ForceSync(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	menuID := s.doc.MenuID
	s.mu.Unlock()
	if err := s.transport.Publish(ctx, menuID); err != nil {
		s.reportError(err)
		return err
	}
	s.mu.Lock()
	s.doc.Active = true
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

func (s *Session) fireDomain(d Domain) {
	ctx := context.Background()
	switch d {
	case DomainBasics:
		s.syncBasics(ctx)
	case DomainStructure:
		s.syncStructure(ctx)
	}
}

// --- image operations ---

// UploadDishImage บีบรูปให้อยู่ใน budget ก่อน แล้วอัปโหลดเป็นรูปประจำจาน
func (s *Session) UploadDishImage(ctx context.Context, sectionClientID, dishClientID string, img []byte) error {
	encoded, err := utils.CompressImage(img, s.cfg.ImageBudget, s.cfg.MaxImageEdge)
	if err != nil {
		s.reportError(err)
		return err
	}
	menuID, sectionID, dishID, err := s.ensureDishPersisted(ctx, sectionClientID, dishClientID)
	if err != nil {
		return err
	}
	fotoURL, err := s.transport.UploadDishImage(ctx, menuID, sectionID, dishID, encoded)
	if err != nil {
		s.reportError(err)
		return err
	}
	s.mu.Lock()
	if sec := findSection(&s.doc, sectionClientID); sec != nil {
		if d := findDish(sec, dishClientID); d != nil {
			d.FotoURL = fotoURL
		}
	}
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

// RequestImageEnhance ส่งรูป (budget ต่ำกว่า + crop ได้) เข้า job AI
// ผลลัพธ์จะกลับมาทาง push channel ไม่ใช่ response นี้
func (s *Session) RequestImageEnhance(ctx context.Context, sectionClientID, dishClientID string, img []byte, crop *utils.CropSpec) error {
	encoded, err := utils.CompressImageCropped(img, crop, s.cfg.EnhanceBudget, s.cfg.MaxImageEdge)
	if err != nil {
		s.reportError(err)
		return err
	}
	menuID, sectionID, dishID, err := s.ensureDishPersisted(ctx, sectionClientID, dishClientID)
	if err != nil {
		return err
	}
	if err := s.transport.RequestDishImageEnhance(ctx, menuID, sectionID, dishID, encoded); err != nil {
		s.reportError(err)
		return err
	}
	s.mu.Lock()
	if sec := findSection(&s.doc, sectionClientID); sec != nil {
		if d := findDish(sec, dishClientID); d != nil {
			d.Job.Requested = true
		}
	}
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

// job ผูกกับ persisted id เท่านั้น — ถ้าจานยังไม่เคยบันทึกต้อง force structural sync ก่อน
func (s *Session) ensureDishPersisted(ctx context.Context, sectionClientID, dishClientID string) (menuID, sectionID, dishID uint, err error) {
	lookup := func() (uint, uint, uint, bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		sec := findSection(&s.doc, sectionClientID)
		if sec == nil {
			return 0, 0, 0, false
		}
		d := findDish(sec, dishClientID)
		if d == nil {
			return 0, 0, 0, false
		}
		return s.doc.MenuID, sec.ID, d.ID, true
	}

	menuID, sectionID, dishID, ok := lookup()
	if !ok {
		return 0, 0, 0, fmt.Errorf("dish %s not found", dishClientID)
	}
	if sectionID == 0 || dishID == 0 {
		if err := s.syncStructure(ctx); err != nil {
			return 0, 0, 0, err
		}
		menuID, sectionID, dishID, ok = lookup()
		if !ok || sectionID == 0 || dishID == 0 {
			err := fmt.Errorf("dish %s has no persisted id after sync", dishClientID)
			s.reportError(err)
			return 0, 0, 0, err
		}
	}
	return menuID, sectionID, dishID, nil
}

// Close ปิด session: หยุด debounce ทั้งหมด ปิด push connection
// HTTP call ที่ค้างอยู่ปล่อยให้จบเอง แต่ผลจะถูกทิ้งเพราะ closed แล้ว
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tracker := s.tracker
	s.mu.Unlock()

	s.sched.Close()
	if tracker != nil {
		tracker.Close()
	}
}

func basicsPayloadOf(d *Document) entity.MenuBasicsPayload {
	sub := d.Subtitle
	if sub == nil {
		sub = []string{}
	}
	return entity.MenuBasicsPayload{
		Title:    strings.TrimSpace(d.Title),
		Price:    d.Price,
		Active:   d.Active,
		MenuType: d.MenuType,
		Subtitle: sub,
		Settings: d.Settings,
	}
}
