package ws

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// JobHub คือศูนย์กลาง push channel ของ enhancement job
// client เปิด editor เมนูไหน ก็ subscribe ห้องของเมนูนั้น
// เขียนลง conn ได้จาก Run loop เท่านั้น — gorilla อนุญาต writer เดียวต่อ conn
type JobHub struct {
	clients    map[uint]map[*websocket.Conn]bool // menuID -> set of clients
	broadcast  chan JobBroadcast
	register   chan JobSubscription
	unregister chan JobSubscription
	snapshots  chan snapshotPush
	mu         sync.Mutex
	jobs       *repository.JobRepository
	secret     string
}

// snapshotPush = คำขอส่ง snapshot ให้ connection เดียว ผ่าน Run loop
type snapshotPush struct {
	conn    *websocket.Conn
	menuID  uint
	msgType string
}

// JobSubscription = หนึ่ง connection ต่อหนึ่งเมนูที่เปิดอยู่
type JobSubscription struct {
	Conn    *websocket.Conn
	MenuID  uint
	StaffID uint
}

// JobBroadcast = event ที่จะกระจายให้ทุก client ในห้องเมนู
type JobBroadcast struct {
	MenuID  uint
	Message entity.JobMessage
}

func NewJobHub(jobs *repository.JobRepository, secret string) *JobHub {
	return &JobHub{
		clients:    make(map[uint]map[*websocket.Conn]bool),
		broadcast:  make(chan JobBroadcast),
		register:   make(chan JobSubscription),
		unregister: make(chan JobSubscription),
		snapshots:  make(chan snapshotPush),
		jobs:       jobs,
		secret:     secret,
	}
}

// คอยฟัง register/unregister/broadcast ตลอดเวลา
func (h *JobHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.MenuID] == nil {
				h.clients[sub.MenuID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.MenuID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.MenuID][sub.Conn]; ok {
				delete(h.clients[sub.MenuID], sub.Conn)
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.MenuID] {
				if err := conn.WriteJSON(msg.Message); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients[msg.MenuID], conn)
				}
			}
			h.mu.Unlock()

		case req := <-h.snapshots:
			if err := h.sendSnapshot(req.conn, req.menuID, req.msgType); err != nil {
				log.Printf("ws snapshot error: %v", err)
				h.mu.Lock()
				if _, ok := h.clients[req.menuID][req.conn]; ok {
					delete(h.clients[req.menuID], req.conn)
					req.conn.Close()
				}
				h.mu.Unlock()
			}
		}
	}
}

// BroadcastJob ให้ service ฝั่ง HTTP ยิง event เข้าห้องเมนู
func (h *JobHub) BroadcastJob(menuID uint, msg entity.JobMessage) {
	h.broadcast <- JobBroadcast{MenuID: menuID, Message: msg}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/menus/:id/jobs?token=...
func (h *JobHub) HandleWebSocket(c *gin.Context) {
	menuID64, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	menuID := uint(menuID64)

	// upgrade ก่อนแล้วค่อยตรวจ token — client ต้องเห็น close code 4401
	// ถึงจะรู้ว่าโดนปฏิเสธสิทธิ์ ไม่ใช่เน็ตหลุด (HTTP 401 เฉย ๆ แยกไม่ออก)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	tokenStr := c.Query("token")
	claims, err := utils.ParseToken(tokenStr, h.secret)
	if err != nil {
		msg := websocket.FormatCloseMessage(entity.CloseUnauthorized, "unauthorized")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		return
	}

	sub := JobSubscription{Conn: conn, MenuID: menuID, StaffID: claims.StaffID}
	h.register <- sub

	// ไม่ให้ client เดา state — ขอ hello snapshot ทันทีที่เข้าห้อง
	// (ส่งจริงใน Run loop เพื่อไม่ให้ชนกับ broadcast บน conn เดียวกัน)
	h.snapshots <- snapshotPush{conn: conn, menuID: menuID, msgType: entity.JobMsgHello}

	go h.listen(sub)
}

func (h *JobHub) sendSnapshot(conn *websocket.Conn, menuID uint, msgType string) error {
	rows, err := h.jobs.SnapshotByMenu(menuID)
	if err != nil {
		return err
	}
	dishes := make([]entity.DishJobState, len(rows))
	for i, row := range rows {
		dishes[i] = entity.DishJobState{
			DishID:            row.DishID,
			Requested:         row.Requested,
			Generating:        row.Generating,
			GeneratedImageURL: row.GeneratedImageURL,
		}
	}
	return conn.WriteJSON(entity.JobMessage{Type: msgType, MenuID: menuID, Dishes: dishes})
}

// listen = ฟังข้อความจาก client — รองรับแค่ {"type":"sync"} ขอ snapshot ใหม่
func (h *JobHub) listen(sub JobSubscription) {
	defer func() { h.unregister <- sub }()

	for {
		var msg entity.JobMessage
		if err := sub.Conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read error: %v", err)
			}
			break
		}
		if msg.Type == entity.JobMsgSync {
			h.snapshots <- snapshotPush{conn: sub.Conn, menuID: sub.MenuID, msgType: entity.JobMsgSnapshot}
		}
	}
}
