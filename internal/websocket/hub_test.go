package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"consumables/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Hub, *auth.Issuer, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, issuer) })

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, issuer, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServeWs_RejectsMissingOrBadToken(t *testing.T) {
	_, _, url := newServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishReachesAdminClient(t *testing.T) {
	hub, issuer, url := newServer(t)
	token, _, err := issuer.Issue(auth.RoleAdmin, time.Now())
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("requests.created", map[string]int{"count": 2})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "requests.created", msg.Event)
	assert.Equal(t, 2, msg.Data["count"])
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("catalog.replaced", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no running hub")
	}
}

func TestHub_RegisterAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	returned := make(chan bool)
	go func() {
		c := &Client{Hub: hub, Send: make(chan []byte, 1)}
		hub.remove(c)
		returned <- hub.add(c)
	}()

	select {
	case added := <-returned:
		assert.False(t, added)
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked on a stopped hub")
	}
}

func TestServeWs_AfterHubStopClosesConnection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, issuer) })
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	token, _, err := issuer.Issue(auth.RoleAdmin, time.Now())
	require.NoError(t, err)

	first, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-hub.done

	// the stopped hub closed the first client's send queue
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = first.ReadMessage()
	assert.Error(t, err)
	_ = first.Close()

	second, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = second.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Equal(t, 0, hub.ClientCount())
}
