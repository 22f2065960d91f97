package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"colmeia-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

func TestWebSocketDashboardFeed(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current dashboard first.
	msgType, payload := readNext(conn, t, "dashboard")
	if payload == nil {
		t.Fatalf("expected dashboard payload, got nil (%s)", msgType)
	}

	body, _ := json.Marshal([]domain.UserAnswer{{QuestionText: latePaymentQuestion, Answer: "Nunca"}})
	resp, err := http.Post(server.URL+"/result", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post result: %v", err)
	}
	resp.Body.Close()

	_, payload = readNext(conn, t, "dashboard")
	badges, _ := payload["badges"].([]any)
	found := false
	for _, raw := range badges {
		badge, _ := raw.(map[string]any)
		if badge["id"] == "compromisso" {
			found = true
			if badge["nivel_atual"] != float64(2) {
				t.Fatalf("expected compromisso level 2, got %v", badge["nivel_atual"])
			}
		}
	}
	if !found {
		t.Fatalf("compromisso badge missing from update")
	}

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	readNext(conn, t, "pong")

	if err := conn.WriteJSON(map[string]any{"type": "shout"}); err != nil {
		t.Fatalf("write unsupported: %v", err)
	}
	readNext(conn, t, "error")
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
