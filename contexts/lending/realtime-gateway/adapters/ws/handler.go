package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"creditapp/contexts/lending/realtime-gateway/application"

	"github.com/gorilla/websocket"
)

// Handler upgrades officer connections on /ws/bank/{bank_id}/applications
// and pumps inbound keep-alive probes. The connection is refused before
// upgrade when no bank id can be derived from the path.
type Handler struct {
	Registry *application.Registry
	Logger   *slog.Logger

	upgrader websocket.Upgrader
}

func NewHandler(registry *application.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Registry: registry,
		Logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Officer dashboards are served from other origins in
			// every deployment profile.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bankID := bankIDFromPath(r.URL.Path)
	if bankID == "" {
		h.Logger.Warn("connection refused, bank id missing",
			"event", "ws_handshake_refused",
			"module", "lending/realtime-gateway",
			"path", r.URL.Path,
		)
		http.Error(w, "bank id not found in url", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("upgrade failed",
			"event", "ws_upgrade_failed",
			"module", "lending/realtime-gateway",
			"bank_id", bankID,
			"error", err.Error(),
		)
		return
	}

	session := &connSession{conn: conn}
	h.Registry.Register(bankID, session)
	defer func() {
		h.Registry.Unregister(bankID, session)
		conn.Close()
	}()

	if err := session.SendText(h.Registry.ConnectedEnvelope()); err != nil {
		return
	}

	h.readLoop(bankID, session)
}

// readLoop answers "ping" with a pong envelope; any other inbound payload
// is ignored. Returns when the peer closes or the read fails.
func (h *Handler) readLoop(bankID string, session *connSession) {
	for {
		kind, payload, err := session.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if string(payload) == "ping" {
			if err := session.SendText(h.Registry.PongEnvelope()); err != nil {
				return
			}
		}
	}
}

// bankIDFromPath extracts {bank_id} from /ws/bank/{bank_id}/applications.
func bankIDFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "ws" || parts[1] != "bank" || parts[3] != "applications" {
		return ""
	}
	return strings.TrimSpace(parts[2])
}

// connSession serializes writes; gorilla connections allow one concurrent
// writer only.
type connSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connSession) SendText(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
