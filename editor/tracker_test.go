package editor

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaivial/backofficereact-sub001/entity"
)

func TestBackoffDoublesUpToCap(t *testing.T) {
	base := time.Second
	capDur := 30 * time.Second
	want := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, Backoff(base, capDur, i+1, 0), "attempt %d", i+1)
	}
	// attempt ต่ำกว่า 1 ถือเป็น 1
	assert.Equal(t, time.Second, Backoff(base, capDur, 0, 0))
}

func TestBackoffJitterStaysInRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := Backoff(time.Second, 30*time.Second, 3, 250*time.Millisecond)
		assert.GreaterOrEqual(t, d, 4*time.Second)
		assert.Less(t, d, 4*time.Second+250*time.Millisecond)
	}
}

type readResult struct {
	data []byte
	err  error
}

// scriptConn ป้อน frame/error ให้ tracker ตามสคริปต์ของ test
type scriptConn struct {
	mu      sync.Mutex
	reads   chan readResult
	done    chan struct{}
	closed  bool
	wrote   []entity.JobMessage
	wroteCh chan struct{}
}

func newScriptConn() *scriptConn {
	return &scriptConn{
		reads:   make(chan readResult, 16),
		done:    make(chan struct{}),
		wroteCh: make(chan struct{}, 16),
	}
}

func (c *scriptConn) ReadMessage() (int, []byte, error) {
	select {
	case r := <-c.reads:
		return websocket.TextMessage, r.data, r.err
	case <-c.done:
		return 0, nil, net.ErrClosed
	}
}

func (c *scriptConn) WriteJSON(v any) error {
	c.mu.Lock()
	if msg, ok := v.(entity.JobMessage); ok {
		c.wrote = append(c.wrote, msg)
	}
	c.mu.Unlock()
	c.wroteCh <- struct{}{}
	return nil
}

func (c *scriptConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *scriptConn) pushFrame(data string) { c.reads <- readResult{data: []byte(data)} }
func (c *scriptConn) pushErr(err error)     { c.reads <- readResult{err: err} }

func (c *scriptConn) lastWrote() entity.JobMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wrote[len(c.wrote)-1]
}

func TestTrackerRequestsSnapshotOnConnect(t *testing.T) {
	s, _, _ := newTestSession(t)
	conn := newScriptConn()
	s.StartJobTracker(func(ctx context.Context) (trackerConn, error) { return conn, nil })

	select {
	case <-conn.wroteCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tracker ไม่ส่ง sync request")
	}
	msg := conn.lastWrote()
	assert.Equal(t, entity.JobMsgSync, msg.Type)
	assert.EqualValues(t, 1, msg.MenuID)
}

func TestTrackerAppliesIncomingEvents(t *testing.T) {
	changed := make(chan struct{}, 16)
	s, _, _ := newTestSession(t, OnChange(func() { changed <- struct{}{} }))
	conn := newScriptConn()
	s.StartJobTracker(func(ctx context.Context) (trackerConn, error) { return conn, nil })

	<-conn.wroteCh
	conn.pushFrame(`{"type":"started","dishId":100}`)
	waitSignal(t, changed)

	d := findDish(findSection(snapPtr(s), "s-1"), "d-1")
	require.NotNil(t, d)
	assert.True(t, d.Job.Generating)
}

func TestTrackerSkipsMalformedFramesWithoutDisconnect(t *testing.T) {
	changed := make(chan struct{}, 16)
	s, _, _ := newTestSession(t, OnChange(func() { changed <- struct{}{} }))
	conn := newScriptConn()
	var dials int
	var mu sync.Mutex
	s.StartJobTracker(func(ctx context.Context) (trackerConn, error) {
		mu.Lock()
		dials++
		mu.Unlock()
		return conn, nil
	})

	<-conn.wroteCh
	conn.pushFrame(`{"type":"ping-nobody-knows"}`)
	conn.pushFrame(`not even json`)
	conn.pushFrame(`{"type":"completed","dishId":101,"generatedImageUrl":"/uploads/enhanced/9.jpg"}`)
	waitSignal(t, changed)

	d := findDish(findSection(snapPtr(s), "s-1"), "d-2")
	assert.Equal(t, "/uploads/enhanced/9.jpg", d.Job.GeneratedImageURL)
	mu.Lock()
	assert.Equal(t, 1, dials)
	mu.Unlock()
}

func TestTrackerReconnectsWithBackoff(t *testing.T) {
	s, _, fc := newTestSession(t)
	conn1 := newScriptConn()
	conn2 := newScriptConn()
	var mu sync.Mutex
	dials := 0
	tr := s.StartJobTracker(func(ctx context.Context) (trackerConn, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials == 1 {
			return conn1, nil
		}
		return conn2, nil
	})

	<-conn1.wroteCh
	// conn2 เตรียม error ไว้ล่วงหน้าเพื่อไม่ให้ read loop ค้างตอน reconnect
	conn2.pushErr(net.ErrClosed)
	conn1.pushErr(net.ErrClosed)

	require.Eventually(t, func() bool { return tr.Attempts() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, fc.pendingTimers())

	// เดินเวลาเกิน delay สูงสุดของ attempt แรก (1s + jitter)
	fc.Advance(2 * time.Second)

	mu.Lock()
	assert.Equal(t, 2, dials)
	mu.Unlock()
	// conn2 ตายทันที (uptime < minUptime) → ตัวนับโตต่อ ไม่ reset
	assert.Equal(t, 2, tr.Attempts())
	assert.Equal(t, 1, fc.pendingTimers())
}

func TestTrackerResetsAttemptsAfterStableUptime(t *testing.T) {
	s, _, fc := newTestSession(t)
	conn := newScriptConn()
	tr := s.StartJobTracker(func(ctx context.Context) (trackerConn, error) { return conn, nil })

	<-conn.wroteCh
	// connection อยู่รอดเกิน minUptime แล้วค่อยหลุด
	fc.Advance(6 * time.Second)
	conn.pushErr(net.ErrClosed)

	require.Eventually(t, func() bool { return tr.Attempts() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestTrackerStopsOnAuthRejection(t *testing.T) {
	errCh := make(chan error, 1)
	s, _, fc := newTestSession(t, OnError(func(err error) { errCh <- err }))
	conn := newScriptConn()
	var mu sync.Mutex
	dials := 0
	s.StartJobTracker(func(ctx context.Context) (trackerConn, error) {
		mu.Lock()
		dials++
		mu.Unlock()
		return conn, nil
	})

	<-conn.wroteCh
	conn.pushErr(&websocket.CloseError{Code: entity.CloseUnauthorized, Text: "token expired"})

	select {
	case err := <-errCh:
		assert.Contains(t, err.Error(), "rejected")
	case <-time.After(2 * time.Second):
		t.Fatal("ไม่มี notice แจ้งผู้ใช้")
	}

	// ห้าม schedule reconnect และห้ามแจ้งซ้ำ
	assert.Zero(t, fc.pendingTimers())
	fc.Advance(time.Minute)
	mu.Lock()
	assert.Equal(t, 1, dials)
	mu.Unlock()
	select {
	case err := <-errCh:
		t.Fatalf("แจ้งซ้ำ: %v", err)
	default:
	}
}

func waitSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout รอ event")
	}
}
