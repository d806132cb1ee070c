package application

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSession struct {
	mu       sync.Mutex
	payloads [][]byte
	failSend bool
}

func (s *fakeSession) SendText(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSend {
		return errors.New("connection reset")
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *fakeSession) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.payloads...)
}

func decodeEnvelope(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return body
}

func TestBroadcastStatusChangeDeliversEnvelope(t *testing.T) {
	registry := NewRegistry(nil)
	registry.SetNowFunc(func() time.Time {
		return time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	})

	session := &fakeSession{}
	registry.Register("bank-a", session)

	registry.BroadcastStatusChange("bank-a", "app-1", "SUBMITTED", "UNDER_REVIEW")

	payloads := session.received()
	if len(payloads) != 1 {
		t.Fatalf("expected one envelope, got %d", len(payloads))
	}
	body := decodeEnvelope(t, payloads[0])
	if body["type"] != "status_changed" {
		t.Fatalf("expected type status_changed, got %v", body["type"])
	}
	if body["applicationId"] != "app-1" || body["oldStatus"] != "SUBMITTED" || body["newStatus"] != "UNDER_REVIEW" {
		t.Fatalf("unexpected envelope fields: %v", body)
	}
	wantMillis := float64(time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC).UnixMilli())
	if body["timestamp"] != wantMillis {
		t.Fatalf("expected epoch-ms timestamp %v, got %v", wantMillis, body["timestamp"])
	}
}

func TestBroadcastApplicationUpdateCarriesData(t *testing.T) {
	registry := NewRegistry(nil)
	session := &fakeSession{}
	registry.Register("bank-a", session)

	registry.BroadcastApplicationUpdate("bank-a", map[string]any{"applicationId": "app-1"})

	payloads := session.received()
	if len(payloads) != 1 {
		t.Fatalf("expected one envelope, got %d", len(payloads))
	}
	body := decodeEnvelope(t, payloads[0])
	if body["type"] != "application_update" {
		t.Fatalf("expected type application_update, got %v", body["type"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["applicationId"] != "app-1" {
		t.Fatalf("unexpected data payload: %v", body["data"])
	}
}

func TestBroadcastToUnknownBankIsNoOp(t *testing.T) {
	registry := NewRegistry(nil)
	registry.BroadcastStatusChange("bank-ghost", "app-1", "SUBMITTED", "UNDER_REVIEW")
}

func TestBroadcastOnlyReachesTargetBank(t *testing.T) {
	registry := NewRegistry(nil)
	sessionA := &fakeSession{}
	sessionB := &fakeSession{}
	registry.Register("bank-a", sessionA)
	registry.Register("bank-b", sessionB)

	registry.BroadcastStatusChange("bank-a", "app-1", "SUBMITTED", "UNDER_REVIEW")

	if len(sessionA.received()) != 1 {
		t.Fatalf("expected bank-a session to receive one envelope, got %d", len(sessionA.received()))
	}
	if len(sessionB.received()) != 0 {
		t.Fatalf("expected bank-b session to receive nothing, got %d", len(sessionB.received()))
	}
}

func TestDeadSessionRemovedDuringBroadcast(t *testing.T) {
	registry := NewRegistry(nil)
	dead := &fakeSession{failSend: true}
	live := &fakeSession{}
	registry.Register("bank-a", dead)
	registry.Register("bank-a", live)

	registry.BroadcastStatusChange("bank-a", "app-1", "SUBMITTED", "UNDER_REVIEW")

	if len(live.received()) != 1 {
		t.Fatalf("expected live session to still receive the envelope, got %d", len(live.received()))
	}
	if registry.SessionCount("bank-a") != 1 {
		t.Fatalf("expected dead session dropped, got %d sessions", registry.SessionCount("bank-a"))
	}
}

func TestUnregisterLastSessionRemovesBankEntry(t *testing.T) {
	registry := NewRegistry(nil)
	session := &fakeSession{}
	registry.Register("bank-a", session)
	registry.Unregister("bank-a", session)

	if registry.SessionCount("bank-a") != 0 {
		t.Fatalf("expected empty registry for bank-a, got %d", registry.SessionCount("bank-a"))
	}
}

func TestRegistryUnderConcurrentLoad(t *testing.T) {
	registry := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				session := &fakeSession{}
				registry.Register("bank-a", session)
				registry.BroadcastStatusChange("bank-a", "app-1", "SUBMITTED", "UNDER_REVIEW")
				registry.Unregister("bank-a", session)
			}
		}()
	}
	wg.Wait()

	if registry.SessionCount("bank-a") != 0 {
		t.Fatalf("expected no orphaned sessions, got %d", registry.SessionCount("bank-a"))
	}
}

func TestPongEnvelopeShape(t *testing.T) {
	registry := NewRegistry(nil)
	body := decodeEnvelope(t, registry.PongEnvelope())
	if body["type"] != "pong" || body["message"] != "pong" {
		t.Fatalf("unexpected pong envelope: %v", body)
	}
	if _, ok := body["timestamp"]; !ok {
		t.Fatal("expected timestamp in pong envelope")
	}
}

func TestConnectedEnvelopeShape(t *testing.T) {
	registry := NewRegistry(nil)
	body := decodeEnvelope(t, registry.ConnectedEnvelope())
	if body["type"] != "connected" {
		t.Fatalf("unexpected connected envelope: %v", body)
	}
	if body["message"] != "Connected to application queue" {
		t.Fatalf("unexpected connected message: %v", body["message"])
	}
}
