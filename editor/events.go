package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jaivial/backofficereact-sub001/entity"
)

type JobEventKind int

const (
	JobEventSnapshot JobEventKind = iota
	JobEventStarted
	JobEventCompleted
	JobEventFailed
)

// JobEvent คือ message ขาเข้าหลัง normalize แล้ว — state update ทุกอย่างกินจาก type นี้
type JobEvent struct {
	Kind              JobEventKind
	DishID            uint
	GeneratedImageURL string
	Message           string
	Dishes            []entity.DishJobState // เฉพาะ snapshot
}

var ErrUnknownJobEvent = errors.New("unknown job event type")

// ParseJobEvent normalize message ได้ 3 shape: event ตรง ๆ, snapshot list,
// และแบบห่อใน tracker object
func ParseJobEvent(raw []byte) (JobEvent, error) {
	var msg entity.JobMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return JobEvent{}, fmt.Errorf("parse job event: %w", err)
	}

	dishID := msg.DishID
	generatedURL := msg.GeneratedImageURL
	if msg.Tracker != nil {
		if dishID == 0 {
			dishID = msg.Tracker.DishID
		}
		if generatedURL == "" {
			generatedURL = msg.Tracker.GeneratedImageURL
		}
	}

	switch msg.Type {
	case entity.JobMsgHello, entity.JobMsgSnapshot:
		return JobEvent{Kind: JobEventSnapshot, Dishes: msg.Dishes}, nil
	case entity.JobMsgStarted:
		return JobEvent{Kind: JobEventStarted, DishID: dishID}, nil
	case entity.JobMsgCompleted:
		return JobEvent{Kind: JobEventCompleted, DishID: dishID, GeneratedImageURL: generatedURL}, nil
	case entity.JobMsgFailed:
		return JobEvent{Kind: JobEventFailed, DishID: dishID, Message: msg.Message}, nil
	default:
		return JobEvent{}, fmt.Errorf("%w: %q", ErrUnknownJobEvent, msg.Type)
	}
}

// ApplyJobEvent merge event ลง document — idempotent และแตะเฉพาะ job-state field
// (ยกเว้นการ promote รูป generated เป็นรูปจานตอนยังไม่มีรูปอัปโหลดเอง)
// event ที่อ้าง dish id ซึ่งไม่อยู่ใน document จะถูกทิ้งเงียบ ๆ
func (s *Session) ApplyJobEvent(ev JobEvent) {
	s.mu.Lock()
	changed := false

	switch ev.Kind {
	case JobEventSnapshot:
		// snapshot คือ state เต็มของเมนู — จานที่ไม่อยู่ใน list แปลว่า server
		// ไม่มี job ค้างแล้ว ต้องเลิกหมุน ไม่งั้น spinner ค้างข้าม reconnect
		byID := make(map[uint]entity.DishJobState, len(ev.Dishes))
		for _, st := range ev.Dishes {
			byID[st.DishID] = st
		}
		for i := range s.doc.Sections {
			for j := range s.doc.Sections[i].Dishes {
				d := &s.doc.Sections[i].Dishes[j]
				if d.ID == 0 {
					continue
				}
				st, ok := byID[d.ID]
				if !ok {
					if d.Job.Generating {
						d.Job.Generating = false
						changed = true
					}
					continue
				}
				if d.Job.Requested != st.Requested ||
					d.Job.Generating != st.Generating ||
					d.Job.GeneratedImageURL != st.GeneratedImageURL {
					d.Job.Requested = st.Requested
					d.Job.Generating = st.Generating
					d.Job.GeneratedImageURL = st.GeneratedImageURL
					changed = true
				}
			}
		}

	case JobEventStarted:
		if d := findDishByServerID(&s.doc, ev.DishID); d != nil {
			if !d.Job.Requested || !d.Job.Generating {
				d.Job.Requested = true
				d.Job.Generating = true
				changed = true
			}
		}

	case JobEventCompleted:
		if d := findDishByServerID(&s.doc, ev.DishID); d != nil {
			if d.Job.Generating || d.Job.GeneratedImageURL != ev.GeneratedImageURL {
				d.Job.Generating = false
				d.Job.GeneratedImageURL = ev.GeneratedImageURL
				changed = true
			}
			// รูป generated ขึ้นเป็นรูปจานเฉพาะตอนยังไม่มีรูปที่อัปโหลดเอง
			if d.FotoURL == "" && ev.GeneratedImageURL != "" {
				d.FotoURL = ev.GeneratedImageURL
				changed = true
			}
		}

	case JobEventFailed:
		if d := findDishByServerID(&s.doc, ev.DishID); d != nil {
			if d.Job.Generating {
				d.Job.Generating = false
				changed = true
			}
			s.mu.Unlock()
			// แจ้งเฉพาะครั้งที่ดับ spinner จริง — failed ซ้ำไม่ต้องเด้งซ้ำ
			if changed {
				s.reportError(fmt.Errorf("image enhancement failed: %s", ev.Message))
				s.notifyChange()
			}
			return
		}
	}

	s.mu.Unlock()
	if changed {
		s.notifyChange()
	}
}
