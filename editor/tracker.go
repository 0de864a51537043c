package editor

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jaivial/backofficereact-sub001/entity"
)

// trackerConn คือส่วนของ *websocket.Conn ที่ tracker ใช้ — ฉีด fake ได้ใน test
type trackerConn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type DialFunc func(ctx context.Context) (trackerConn, error)

// JobTracker ถือ push connection หนึ่งเส้นต่อ session
// state machine: Disconnected -> Connecting -> Open -> Disconnected วนไป
// เปิดติดแล้วไม่เดาสถานะ server — รอ hello/snapshot ก่อนค่อย merge
type JobTracker struct {
	session *Session
	dial    DialFunc
	clock   Clock

	base      time.Duration
	cap       time.Duration
	jitter    time.Duration
	minUptime time.Duration

	mu           sync.Mutex
	conn         trackerConn
	attempts     int
	timer        Timer
	closed       bool
	authRejected bool
}

// Backoff คำนวณ delay ก่อน reconnect ครั้งที่ attempt (เริ่มนับที่ 1):
// min(cap, base * 2^(attempt-1)) + jitter สุ่ม
func Backoff(base, capDur time.Duration, attempt int, jitter time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= capDur || d <= 0 {
			d = capDur
			break
		}
	}
	if d > capDur {
		d = capDur
	}
	if jitter > 0 {
		d += time.Duration(rand.Int63n(int64(jitter)))
	}
	return d
}

func newJobTracker(s *Session, dial DialFunc) *JobTracker {
	return &JobTracker{
		session:   s,
		dial:      dial,
		clock:     s.clock,
		base:      s.cfg.ReconnectBase,
		cap:       s.cfg.ReconnectCap,
		jitter:    s.cfg.ReconnectJitter,
		minUptime: s.cfg.ReconnectMinUptime,
	}
}

// ConnectJobs เปิด push channel ไปที่ ws endpoint ของเมนูนี้ (token ส่งทาง query)
func (s *Session) ConnectJobs(wsURL, token string) *JobTracker {
	s.mu.Lock()
	menuID := s.doc.MenuID
	s.mu.Unlock()

	dial := func(ctx context.Context) (trackerConn, error) {
		u := wsURL
		if token != "" {
			u += "?token=" + url.QueryEscape(token)
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	t := newJobTracker(s, dial)
	s.mu.Lock()
	s.tracker = t
	s.mu.Unlock()
	go t.connect(menuID)
	return t
}

// StartJobTracker แบบฉีด dial เอง — ใช้ใน test
func (s *Session) StartJobTracker(dial DialFunc) *JobTracker {
	s.mu.Lock()
	menuID := s.doc.MenuID
	s.mu.Unlock()
	t := newJobTracker(s, dial)
	s.mu.Lock()
	s.tracker = t
	s.mu.Unlock()
	go t.connect(menuID)
	return t
}

func (t *JobTracker) connect(menuID uint) {
	t.mu.Lock()
	if t.closed || t.authRejected {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	conn, err := t.dial(context.Background())
	if err != nil {
		t.onClosed(err, time.Time{}, menuID)
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()

	openedAt := t.clock.Now()

	// ขอ snapshot สดก่อนเสมอ
	if err := conn.WriteJSON(entity.JobMessage{Type: entity.JobMsgSync, MenuID: menuID}); err != nil {
		conn.Close()
		t.onClosed(err, openedAt, menuID)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.onClosed(err, openedAt, menuID)
			return
		}
		ev, perr := ParseJobEvent(raw)
		if perr != nil {
			// message แปลก ๆ ทิ้งได้ ไม่ต้องตัด connection
			log.Printf("job tracker: %v", perr)
			continue
		}
		t.session.ApplyJobEvent(ev)
	}
}

func (t *JobTracker) onClosed(err error, openedAt time.Time, menuID uint) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.conn = nil

	// ถูกปฏิเสธสิทธิ์: แจ้งผู้ใช้ครั้งเดียว แล้วหยุด reconnect จนกว่า session จะ refresh
	if websocket.IsCloseError(err, entity.CloseUnauthorized) {
		notified := t.authRejected
		t.authRejected = true
		t.mu.Unlock()
		if !notified {
			t.session.reportError(errors.New("realtime channel rejected: session expired"))
		}
		return
	}

	// connection ที่อยู่รอดเกิน minUptime ถือว่าเน็ตเวิร์กโอเคแล้ว — เริ่มนับ backoff ใหม่
	if !openedAt.IsZero() && t.clock.Now().Sub(openedAt) >= t.minUptime {
		t.attempts = 0
	}
	t.attempts++
	delay := Backoff(t.base, t.cap, t.attempts, t.jitter)
	t.timer = t.clock.AfterFunc(delay, func() {
		t.connect(menuID)
	})
	t.mu.Unlock()

	if err != nil {
		log.Printf("job tracker: connection closed (%v), reconnect in %s", err, delay)
	}
}

// Attempts คืนตัวนับ reconnect ปัจจุบัน
func (t *JobTracker) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

func (t *JobTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
}
