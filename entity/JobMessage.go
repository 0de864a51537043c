package entity

// shapes ของ push channel (ws) — ใช้ทั้ง hub ฝั่ง server และ tracker ฝั่ง client

const (
	JobMsgHello     = "hello"
	JobMsgSnapshot  = "snapshot"
	JobMsgStarted   = "started"
	JobMsgCompleted = "completed"
	JobMsgFailed    = "failed"
	JobMsgSync      = "sync" // client -> server ขอ snapshot ใหม่
)

// close code ที่ server ใช้ตอน token ใช้ไม่ได้ — client ห้าม reconnect อัตโนมัติ
const CloseUnauthorized = 4401

type DishJobState struct {
	DishID            uint   `json:"dishId"`
	Requested         bool   `json:"requested"`
	Generating        bool   `json:"generating"`
	GeneratedImageURL string `json:"generatedImageUrl"`
}

// JobMessage รองรับได้หลาย shape: event ตรง ๆ, snapshot แบบ list,
// หรือห่อใน tracker object (client รุ่นเก่าส่งแบบนั้น)
type JobMessage struct {
	Type              string         `json:"type"`
	MenuID            uint           `json:"menuId,omitempty"`
	DishID            uint           `json:"dishId,omitempty"`
	GeneratedImageURL string         `json:"generatedImageUrl,omitempty"`
	Message           string         `json:"message,omitempty"`
	Dishes            []DishJobState `json:"dishes,omitempty"`
	Tracker           *DishJobState  `json:"tracker,omitempty"`
}
