package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"creditapp/contexts/lending/realtime-gateway/application"

	"github.com/gorilla/websocket"
)

func startServer(t *testing.T) (*application.Registry, *httptest.Server) {
	t.Helper()
	registry := application.NewRegistry(nil)
	handler := NewHandler(registry, nil)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return registry, server
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return body
}

func TestHandshakeSendsConnectedEnvelope(t *testing.T) {
	_, server := startServer(t)
	conn := dial(t, server, "/ws/bank/bank-a/applications")

	body := readEnvelope(t, conn)
	if body["type"] != "connected" {
		t.Fatalf("expected connected envelope, got %v", body)
	}
}

func TestHandshakeRefusedWithoutBankID(t *testing.T) {
	_, server := startServer(t)

	resp, err := http.Get(server.URL + "/ws/bank//applications")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 before upgrade, got %d", resp.StatusCode)
	}
}

func TestHandshakeRefusedOnMalformedPath(t *testing.T) {
	_, server := startServer(t)

	resp, err := http.Get(server.URL + "/ws/bank/bank-a")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed path, got %d", resp.StatusCode)
	}
}

func TestPingAnsweredWithPong(t *testing.T) {
	_, server := startServer(t)
	conn := dial(t, server, "/ws/bank/bank-a/applications")
	readEnvelope(t, conn) // connected

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	body := readEnvelope(t, conn)
	if body["type"] != "pong" {
		t.Fatalf("expected pong envelope, got %v", body)
	}
}

func TestStatusChangeDeliveredToConnectedOfficer(t *testing.T) {
	registry, server := startServer(t)
	conn := dial(t, server, "/ws/bank/bank-a/applications")
	readEnvelope(t, conn) // connected

	waitForSessions(t, registry, "bank-a", 1)
	registry.BroadcastStatusChange("bank-a", "app-1", "SUBMITTED", "UNDER_REVIEW")

	body := readEnvelope(t, conn)
	if body["type"] != "status_changed" {
		t.Fatalf("expected status_changed envelope, got %v", body)
	}
	if body["oldStatus"] != "SUBMITTED" || body["newStatus"] != "UNDER_REVIEW" {
		t.Fatalf("unexpected status payload: %v", body)
	}
}

func TestDisconnectUnregistersSession(t *testing.T) {
	registry, server := startServer(t)
	conn := dial(t, server, "/ws/bank/bank-a/applications")
	readEnvelope(t, conn) // connected
	waitForSessions(t, registry, "bank-a", 1)

	conn.Close()
	waitForSessions(t, registry, "bank-a", 0)
}

func waitForSessions(t *testing.T, registry *application.Registry, bankID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.SessionCount(bankID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d sessions for %s, got %d", want, bankID, registry.SessionCount(bankID))
}

func TestBankIDFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/ws/bank/bank-a/applications", "bank-a"},
		{"/ws/bank//applications", ""},
		{"/ws/bank/bank-a", ""},
		{"/ws/other/bank-a/applications", ""},
		{"/ws/bank/bank-a/applications/extra", ""},
	}
	for _, tc := range cases {
		if got := bankIDFromPath(tc.path); got != tc.want {
			t.Fatalf("bankIDFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
