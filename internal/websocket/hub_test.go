package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"smartstudy-backend/internal/middleware"
	"smartstudy-backend/internal/models"
)

const testSecret = "test-secret"

// unreachableRedis gives the relay a client that never delivers anything.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func dialHub(t *testing.T, srv *httptest.Server, userID uuid.UUID) *websocket.Conn {
	t.Helper()

	token, err := middleware.NewJWTAuth(testSecret).GenerateAccessToken(userID, "student@example.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	return conn
}

func waitForConnections(t *testing.T, h *Hub, userID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.connected(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d connections for user %s, got %d", want, userID, h.connected(userID))
}

func TestHub_RejectsBadToken(t *testing.T) {
	hub := NewHub(unreachableRedis(), testSecret, "*")
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	tests := []struct {
		name  string
		query string
	}{
		{"missing token", ""},
		{"garbage token", "?token=not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.query)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", resp.StatusCode)
			}
		})
	}
}

// SendToUser and the redis relay may push to the same connection at the same
// time; every frame has to arrive intact and none may be lost.
func TestHub_ConcurrentSendsDeliverEveryMessage(t *testing.T) {
	hub := NewHub(unreachableRedis(), testSecret, "*")
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	userID := uuid.New()
	conn := dialHub(t, srv, userID)
	defer conn.Close()
	waitForConnections(t, hub, userID, 1)

	const senders = 8
	const perSender = 25

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				hub.SendToUser(userID, models.WSMessage{
					Type:    "session_status",
					Payload: models.SessionStatusEvent{SessionID: uuid.New()},
				})
			}
		}()
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < senders*perSender; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Read %d failed: %v", i, err)
		}
		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Message %d is not valid JSON: %v", i, err)
		}
		if msg.Type != "session_status" {
			t.Fatalf("Message %d: expected type session_status, got %q", i, msg.Type)
		}
	}
}

func TestHub_BroadcastReachesAllConnections(t *testing.T) {
	hub := NewHub(unreachableRedis(), testSecret, "*")
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	userID := uuid.New()
	first := dialHub(t, srv, userID)
	defer first.Close()
	second := dialHub(t, srv, userID)
	defer second.Close()
	waitForConnections(t, hub, userID, 2)

	hub.SendToUser(userID, models.WSMessage{Type: "schedule_generated"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if msg.Type != "schedule_generated" {
			t.Errorf("Expected type schedule_generated, got %q", msg.Type)
		}
	}
}

func TestHub_UnregisterDropsUser(t *testing.T) {
	hub := NewHub(unreachableRedis(), testSecret, "*")
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	userID := uuid.New()
	conn := dialHub(t, srv, userID)
	waitForConnections(t, hub, userID, 1)

	conn.Close()
	waitForConnections(t, hub, userID, 0)
}
