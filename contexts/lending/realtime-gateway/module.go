package realtimegateway

import (
	"log/slog"

	"creditapp/contexts/lending/realtime-gateway/adapters/ws"
	"creditapp/contexts/lending/realtime-gateway/application"
)

// Module owns the officer push channel: the session registry plus the
// websocket handshake handler.
type Module struct {
	Registry *application.Registry
	Handler  *ws.Handler
}

func NewModule(logger *slog.Logger) Module {
	registry := application.NewRegistry(logger)
	return Module{
		Registry: registry,
		Handler:  ws.NewHandler(registry, logger),
	}
}
