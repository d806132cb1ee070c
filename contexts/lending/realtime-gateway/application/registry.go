package application

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Session is one officer's push channel. SendText must be safe for
// concurrent use by broadcasts and the keep-alive reply path.
type Session interface {
	SendText(payload []byte) error
}

// Registry maps bank ids to the sessions of their connected officers.
// It is process-lifetime shared state; all mutation goes through the lock.
// Broadcasts iterate over a snapshot so register/unregister of other
// sessions can proceed mid-fanout.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[Session]struct{}

	logger *slog.Logger
	now    func() time.Time
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: map[string]map[Session]struct{}{},
		logger:   logger,
		now:      time.Now,
	}
}

// SetNowFunc pins the envelope clock for deterministic tests.
func (r *Registry) SetNowFunc(now func() time.Time) {
	r.now = now
}

func (r *Registry) Register(bankID string, session Session) {
	r.mu.Lock()
	set, ok := r.sessions[bankID]
	if !ok {
		set = map[Session]struct{}{}
		r.sessions[bankID] = set
	}
	set[session] = struct{}{}
	active := len(set)
	r.mu.Unlock()

	r.logger.Info("officer session registered",
		"event", "ws_session_registered",
		"module", "lending/realtime-gateway",
		"bank_id", bankID,
		"active_sessions", active,
	)
}

// Unregister removes the session; the bank entry is dropped entirely once
// its last session is gone.
func (r *Registry) Unregister(bankID string, session Session) {
	r.mu.Lock()
	set, ok := r.sessions[bankID]
	if ok {
		delete(set, session)
		if len(set) == 0 {
			delete(r.sessions, bankID)
		}
	}
	active := len(set)
	r.mu.Unlock()

	if !ok {
		return
	}
	r.logger.Info("officer session unregistered",
		"event", "ws_session_unregistered",
		"module", "lending/realtime-gateway",
		"bank_id", bankID,
		"active_sessions", active,
	)
}

// SessionCount reports the number of sessions registered for a bank.
func (r *Registry) SessionCount(bankID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[bankID])
}

func (r *Registry) BroadcastApplicationUpdate(bankID string, item any) {
	r.broadcast(bankID, map[string]any{
		"type": "application_update",
		"data": item,
	})
}

func (r *Registry) BroadcastStatusChange(bankID string, applicationID string, oldStatus string, newStatus string) {
	r.broadcast(bankID, map[string]any{
		"type":          "status_changed",
		"applicationId": applicationID,
		"oldStatus":     oldStatus,
		"newStatus":     newStatus,
	})
}

// ConnectedEnvelope is the handshake confirmation payload.
func (r *Registry) ConnectedEnvelope() []byte {
	return r.envelope(map[string]any{
		"type":    "connected",
		"message": "Connected to application queue",
	})
}

// PongEnvelope answers an inbound keep-alive probe.
func (r *Registry) PongEnvelope() []byte {
	return r.envelope(map[string]any{
		"type":    "pong",
		"message": "pong",
	})
}

// broadcast pushes one envelope to every session registered for the bank.
// A session whose send fails is removed and does not abort delivery to the
// rest. Zero registered sessions is a silent no-op.
func (r *Registry) broadcast(bankID string, fields map[string]any) {
	payload := r.envelope(fields)

	r.mu.RLock()
	set := r.sessions[bankID]
	if len(set) == 0 {
		r.mu.RUnlock()
		return
	}
	snapshot := make([]Session, 0, len(set))
	for session := range set {
		snapshot = append(snapshot, session)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, session := range snapshot {
		if err := session.SendText(payload); err != nil {
			r.Unregister(bankID, session)
			r.logger.Warn("dead session dropped during broadcast",
				"event", "ws_session_send_failed",
				"module", "lending/realtime-gateway",
				"bank_id", bankID,
				"error", err.Error(),
			)
			continue
		}
		delivered++
	}

	r.logger.Info("broadcast delivered",
		"event", "ws_broadcast_delivered",
		"module", "lending/realtime-gateway",
		"bank_id", bankID,
		"message_type", fields["type"],
		"delivered", delivered,
	)
}

func (r *Registry) envelope(fields map[string]any) []byte {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["timestamp"] = r.now().UnixMilli()

	payload, err := json.Marshal(body)
	if err != nil {
		r.logger.Error("envelope serialization failed",
			"event", "ws_envelope_marshal_failed",
			"module", "lending/realtime-gateway",
			"error", err.Error(),
		)
		return []byte("{}")
	}
	return payload
}
