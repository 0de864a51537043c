package editor

import (
	"sync"
	"time"
)

// Clock ฉีดเข้ามาได้ เพื่อให้ test debounce/backoff ไม่ต้องรอ timer จริง
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func SystemClock() Clock { return systemClock{} }

type Domain string

const (
	DomainBasics    Domain = "basics"
	DomainStructure Domain = "structure"
)

// Scheduler = debounce 2 โดเมนอิสระกัน ทุก mutation ที่เกี่ยวจะ restart timer ของโดเมนตัวเอง
// timer ครบแล้วถึงค่อยเรียก fire(domain) — ฝั่ง session เป็นคนเช็ค fingerprint ว่ายังต่างจริงไหม
type Scheduler struct {
	clock  Clock
	delays map[Domain]time.Duration
	fire   func(Domain)

	mu     sync.Mutex
	timers map[Domain]Timer
	closed bool
}

func NewScheduler(clock Clock, basics, structure time.Duration, fire func(Domain)) *Scheduler {
	return &Scheduler{
		clock: clock,
		delays: map[Domain]time.Duration{
			DomainBasics:    basics,
			DomainStructure: structure,
		},
		fire:   fire,
		timers: map[Domain]Timer{},
	}
}

// Schedule restart timer เสมอ (cancel-and-restart ไม่ใช่ต่อเวลา)
func (s *Scheduler) Schedule(d Domain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[d]; ok {
		t.Stop()
	}
	s.timers[d] = s.clock.AfterFunc(s.delays[d], func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, d)
		s.mu.Unlock()
		s.fire(d)
	})
}

func (s *Scheduler) Cancel(d Domain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[d]; ok {
		t.Stop()
		delete(s.timers, d)
	}
}

func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for d, t := range s.timers {
		t.Stop()
		delete(s.timers, d)
	}
}
