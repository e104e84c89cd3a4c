package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	engine := gin.New()
	engine.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, hub *Hub, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	before := hub.ClientCount()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	var frame Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestHub_DeliversEventToEveryClient(t *testing.T) {
	hub, srv, _ := startHub(t)
	first := dial(t, hub, srv, "")
	second := dial(t, hub, srv, "")

	hub.Notify(EventOrdersUpdated)

	assert.Equal(t, Frame{Event: EventOrdersUpdated}, readFrame(t, first))
	assert.Equal(t, Frame{Event: EventOrdersUpdated}, readFrame(t, second))
}

func TestHub_SubscriptionFilter(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, hub, srv, "?events=menu_updated")

	hub.Notify(EventOrdersUpdated)
	hub.Notify(EventMenuUpdated)

	assert.Equal(t, EventMenuUpdated, readFrame(t, conn).Event)
}

func TestHub_UnknownEventInFilterIsRejected(t *testing.T) {
	_, srv, _ := startHub(t)

	resp, err := http.Get(srv.URL + "/ws?events=orders_updated,bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, hub, srv, "")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, srv, cancel := startHub(t)
	conn := dial(t, hub, srv, "")

	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	// Notify after shutdown must not block.
	hub.Notify(EventTablesUpdated)
}

func TestHub_NotifyNeverBlocks(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*3; i++ {
			hub.Notify(EventOrdersUpdated)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running hub")
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}

func TestClient_CoalescesPendingEvents(t *testing.T) {
	c := newClient(nil, nil)
	for i := 0; i < 5; i++ {
		c.enqueue(EventOrdersUpdated)
	}
	c.enqueue(EventTablesUpdated)
	c.enqueue(EventOrdersUpdated)

	assert.Len(t, c.wake, 1)
	assert.Equal(t, []Event{EventOrdersUpdated, EventTablesUpdated}, c.drain())
	assert.Empty(t, c.drain())
}

func TestClient_FilterSkipsUnwantedEvents(t *testing.T) {
	c := newClient(nil, map[Event]struct{}{EventTablesUpdated: {}})
	c.enqueue(EventOrdersUpdated)
	assert.Len(t, c.wake, 0)

	c.enqueue(EventTablesUpdated)
	assert.Equal(t, []Event{EventTablesUpdated}, c.drain())
}

type recordingNotifier struct{ events []Event }

func (r *recordingNotifier) Notify(e Event) { r.events = append(r.events, e) }

func TestNotifiers_FanOut(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	Notifiers{a, nil, b}.Notify(EventMenuUpdated)

	assert.Equal(t, []Event{EventMenuUpdated}, a.events)
	assert.Equal(t, []Event{EventMenuUpdated}, b.events)
}

func TestIsValidEvent(t *testing.T) {
	assert.True(t, IsValidEvent("orders_updated"))
	assert.True(t, IsValidEvent("tables_updated"))
	assert.True(t, IsValidEvent("menu_updated"))
	assert.False(t, IsValidEvent("staff_updated"))
	assert.False(t, IsValidEvent(""))
}
