package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const hubTestSecret = "test-secret"

func newHubServer(t *testing.T) (*JobHub, *httptest.Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.DishJob{}))

	hub := NewJobHub(repository.NewJobRepository(db), hubTestSecret)
	go hub.Run()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/menus/:id/jobs", hub.HandleWebSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dialHub(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/menus/1/jobs?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func hubToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(1, 1, "owner", hubTestSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestJobHubSendsHelloOnJoin(t *testing.T) {
	_, srv := newHubServer(t)
	conn := dialHub(t, srv, hubToken(t))

	var msg entity.JobMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, entity.JobMsgHello, msg.Type)
	assert.Equal(t, uint(1), msg.MenuID)
}

func TestJobHubSyncReturnsSnapshot(t *testing.T) {
	hub, srv := newHubServer(t)
	_, err := hub.jobs.MarkStarted(1, 42)
	require.NoError(t, err)

	conn := dialHub(t, srv, hubToken(t))

	var hello entity.JobMessage
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, entity.JobMsgHello, hello.Type)

	require.NoError(t, conn.WriteJSON(entity.JobMessage{Type: entity.JobMsgSync}))

	var snap entity.JobMessage
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, entity.JobMsgSnapshot, snap.Type)
	require.Len(t, snap.Dishes, 1)
	assert.Equal(t, uint(42), snap.Dishes[0].DishID)
	assert.True(t, snap.Dishes[0].Generating)
}

// ยิง broadcast กับ sync พร้อมกันบน conn เดียว — ทุก write ต้องออกจาก Run loop
// รันด้วย -race ถึงจะเห็นปัญหาถ้ามี writer ซ้อน
func TestJobHubConcurrentBroadcastAndSync(t *testing.T) {
	hub, srv := newHubServer(t)
	conn := dialHub(t, srv, hubToken(t))

	const sentinelDish = 999
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg entity.JobMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == entity.JobMsgCompleted && msg.DishID == sentinelDish {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.BroadcastJob(1, entity.JobMessage{Type: entity.JobMsgStarted, MenuID: 1, DishID: uint(i)})
		}
	}()
	for i := 0; i < 200; i++ {
		require.NoError(t, conn.WriteJSON(entity.JobMessage{Type: entity.JobMsgSync}))
	}
	wg.Wait()

	hub.BroadcastJob(1, entity.JobMessage{Type: entity.JobMsgCompleted, MenuID: 1, DishID: sentinelDish})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sentinel broadcast never arrived")
	}
}

func TestJobHubRejectsBadTokenWithCloseCode(t *testing.T) {
	_, srv := newHubServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/menus/1/jobs?token=garbage"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err) // upgrade สำเร็จก่อน แล้วค่อยโดนปิด
	defer conn.Close()

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, entity.CloseUnauthorized))
}
