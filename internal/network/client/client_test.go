package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/guts/internal/protocol"
)

var upgrader = websocket.Upgrader{}

func echoHandler(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		_ = c.WriteMessage(mt, message)
	}
}

func TestClient_ConnectAndSend(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer s.Close()

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http")

	client := NewClient(wsURL)
	require.NotNil(t, client)

	err := client.Connect()
	require.NoError(t, err)
	defer client.Close()

	time.Sleep(100 * time.Millisecond)
	assert.True(t, client.IsConnected())

	// 回声服务器会原样返回我们发出的消息
	msg := protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 123456})
	err = client.SendMessage(msg)
	assert.NoError(t, err)

	received, err := client.ReceiveWithTimeout(1 * time.Second)
	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, protocol.MsgPing, received.Type)
}

func TestClient_SendAfterClose(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer s.Close()

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http")

	client := NewClient(wsURL)
	require.NoError(t, client.Connect())

	client.Close()
	assert.False(t, client.IsConnected())

	err := client.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
	assert.Error(t, err)
}

func TestClient_ActionPayloads(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(echoHandler))
	defer s.Close()

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http")

	client := NewClient(wsURL)
	require.NoError(t, client.Connect())
	defer client.Close()

	require.NoError(t, client.JoinRoom("ABC234", "Alice"))

	received, err := client.ReceiveWithTimeout(1 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgJoinRoom, received.Type)

	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](received)
	require.NoError(t, err)
	assert.Equal(t, "ABC234", payload.RoomCode)
	assert.Equal(t, "Alice", payload.PlayerName)

	require.NoError(t, client.Hold())
	received, err = client.ReceiveWithTimeout(1 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPlayerDecision, received.Type)

	decision, err := protocol.ParsePayload[protocol.DecisionPayload](received)
	require.NoError(t, err)
	assert.Equal(t, "hold", decision.Decision)
}

func TestClient_ReconnectRequiresToken(t *testing.T) {
	client := NewClient("ws://localhost:0")
	err := client.Reconnect()
	assert.Error(t, err)
}
