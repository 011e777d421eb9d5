package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"geoquiz-service/internal/app"
	"geoquiz-service/internal/infra/memory"
	"geoquiz-service/internal/quiz"
)

func TestWebSocketQuizFlow(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	conn := dial(t, server, "bank=geography&session=s1")
	defer conn.Close()

	_, payload := readNext(conn, t, "session")
	if payload["sessionId"] != "s1" || payload["index"] != float64(0) {
		t.Fatalf("unexpected session payload %v", payload)
	}

	send(conn, t, "previous")
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(5) {
		t.Fatalf("expected wrap to 5, got %v", payload["index"])
	}
	if payload["text"] != "Lake Baikal is the world's oldest and deepest freshwater lake." {
		t.Fatalf("unexpected text %v", payload["text"])
	}

	send(conn, t, "true")
	_, payload = readNext(conn, t, "verdict")
	if payload["verdict"] != "correct" || payload["message"] != "Correct!" {
		t.Fatalf("unexpected verdict %v", payload)
	}

	send(conn, t, "next")
	_, payload = readNext(conn, t, "question")
	if payload["index"] != float64(0) {
		t.Fatalf("expected wrap to 0, got %v", payload["index"])
	}
}

func TestWebSocketResumesSession(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	first := dial(t, server, "session=s2")
	readNext(first, t, "session")
	send(first, t, "next")
	readNext(first, t, "question")
	send(first, t, "next")
	readNext(first, t, "question")
	first.Close()

	second := dial(t, server, "session=s2")
	defer second.Close()
	_, payload := readNext(second, t, "session")
	if payload["index"] != float64(2) {
		t.Fatalf("expected resumed index 2, got %v", payload["index"])
	}
}

func TestWebSocketRejectsBadInput(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	conn := dial(t, server, "")
	defer conn.Close()
	readNext(conn, t, "session")

	if err := conn.WriteJSON(map[string]any{"type": "event", "payload": map[string]any{"event": "sideways"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")

	unknown := dial(t, server, "bank=missing")
	defer unknown.Close()
	readNext(unknown, t, "error")
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewSessionStore(time.Hour)
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(quiz.GeographyBank()), time.Minute)
	service := app.NewQuizService(store, banks, zap.NewNop())
	return httptest.NewServer(NewMux(NewWSHandler(service, zap.NewNop())))
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func send(conn *websocket.Conn, t *testing.T, event string) {
	t.Helper()
	msg := map[string]any{
		"type":    "event",
		"payload": map[string]any{"event": event},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
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
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
