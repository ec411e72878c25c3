package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Relay/internal/app"
	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/config"
	"github.com/dkeye/Relay/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Mode:       "test",
		Secret:     "test-secret",
		ReadLimit:  32768,
		PingPeriod: 54 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  5 * time.Second,
		SendBuffer: 16,
		MaxMembers: 3,
	}
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    core.NewRoomStore(cfg.MaxMembers),
		Policy:   app.SimplePolicy{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(SetupRouter(ctx, cfg, o))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func dial(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	c := &wsClient{t: t, conn: conn}
	t.Cleanup(func() { conn.Close() })
	id, _ := c.expect(orch.EventID)["id"].(string)
	if id == "" {
		t.Fatal("server did not announce a connection id")
	}
	c.id = id
	return c
}

func (c *wsClient) send(v map[string]any) {
	c.t.Helper()
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// expect reads frames until one of type typ arrives.
func (c *wsClient) expect(typ string) map[string]any {
	c.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			c.t.Fatalf("set deadline: %v", err)
		}
		var ev map[string]any
		if err := c.conn.ReadJSON(&ev); err != nil {
			c.t.Fatalf("waiting for %q: %v", typ, err)
		}
		if ev["type"] == typ {
			return ev
		}
	}
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if strings.Contains(string(body), "password") {
		t.Errorf("response leaks a password field: %s", body)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return resp.StatusCode, out
}

func TestChatFlowOverWebsocket(t *testing.T) {
	srv := newTestServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)

	alice.send(map[string]any{"type": "createRoom", "roomName": "room1", "username": "alice", "password": "pw1"})
	if ev := alice.expect(orch.EventRoomCreation); ev["success"] != true {
		t.Fatalf("roomCreation = %v", ev)
	}
	if ev := alice.expect(orch.EventJoinedRoom); ev["isAdmin"] != true {
		t.Fatalf("joinedRoom = %v", ev)
	}
	alice.expect(orch.EventRoomUsers)

	bob.send(map[string]any{"type": "joinRoom", "roomName": "room1", "username": "bob", "password": "pw1"})
	if ev := bob.expect(orch.EventJoinedRoom); ev["success"] != true || ev["isAdmin"] != false {
		t.Fatalf("joinedRoom = %v", ev)
	}
	for _, c := range []*wsClient{alice, bob} {
		ev := c.expect(orch.EventRoomUsers)
		if users, _ := ev["users"].([]any); len(users) != 2 {
			t.Fatalf("roomUsers = %v, want 2 users", ev)
		}
	}

	bob.send(map[string]any{
		"type": "sendMessage", "roomName": "room1", "receiver": "all",
		"message": "hi", "translate": false,
		"sender": "mallory", "senderUsername": "mallory", "isAdmin": true,
	})
	msg := alice.expect(orch.EventReceiveMessage)
	if msg["senderUsername"] != "bob" || msg["isAdmin"] != false || msg["senderId"] != bob.id {
		t.Fatalf("receiveMessage = %v", msg)
	}
	if _, err := time.Parse(time.RFC3339, msg["timestamp"].(string)); err != nil {
		t.Errorf("timestamp %v is not ISO-8601: %v", msg["timestamp"], err)
	}
	bob.expect(orch.EventReceiveMessage)

	alice.send(map[string]any{"type": "kickUser", "roomName": "room1", "targetUsername": "BOB"})
	if ev := bob.expect(orch.EventKicked); ev["roomName"] != "room1" {
		t.Fatalf("kicked = %v", ev)
	}
	if ev := alice.expect(orch.EventKickResult); ev["success"] != true {
		t.Fatalf("kickResult = %v", ev)
	}

	status, info := getJSON(t, srv.URL+"/api/rooms/room1")
	if status != http.StatusOK || info["member_count"] != float64(1) {
		t.Fatalf("room info = %d %v", status, info)
	}

	alice.conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for {
		status, _ := getJSON(t, srv.URL+"/api/rooms/room1")
		if status == http.StatusNotFound {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("room was not deleted after its last member disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLeaveWithoutRoomAndPing(t *testing.T) {
	srv := newTestServer(t)
	c := dial(t, srv)

	c.send(map[string]any{"type": "leaveRoom"})
	if ev := c.expect(orch.EventLeftRoom); ev["success"] != false {
		t.Fatalf("leftRoom = %v", ev)
	}

	c.send(map[string]any{"type": "noSuchEvent"})
	c.send(map[string]any{"type": "ping"})
	c.expect(orch.EventPong)
}

func TestRoomsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := dial(t, srv)
	c.send(map[string]any{"type": "createRoom", "roomName": "lobby", "username": "alice", "password": "secret"})
	c.expect(orch.EventRoomUsers)

	status, body := getJSON(t, srv.URL+"/api/rooms")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	rooms, _ := body["rooms"].([]any)
	if len(rooms) != 1 {
		t.Fatalf("rooms = %v", body)
	}
	room := rooms[0].(map[string]any)
	if room["name"] != "lobby" || room["capacity"] != float64(3) {
		t.Errorf("room = %v", room)
	}

	if status, _ := getJSON(t, srv.URL+"/api/rooms/missing"); status != http.StatusNotFound {
		t.Errorf("missing room status = %d, want 404", status)
	}

	status, health := getJSON(t, srv.URL+"/healthz")
	if status != http.StatusOK || health["rooms"] != float64(1) || health["connections"] != float64(1) {
		t.Errorf("healthz = %d %v", status, health)
	}
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "Secure" {
		t.Errorf("GET / = %d %q", resp.StatusCode, body)
	}
}
