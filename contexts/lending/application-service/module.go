package applicationservice

import (
	"log/slog"

	httpadapter "creditapp/contexts/lending/application-service/adapters/http"
	"creditapp/contexts/lending/application-service/application/commands"
	"creditapp/contexts/lending/application-service/application/queries"
	"creditapp/contexts/lending/application-service/ports"
)

// Module is the composition surface for the application lifecycle service.
// Runtime wiring should consume Handler and the cross-context use cases.
type Module struct {
	Handler          httpadapter.Handler
	ChangeStatus     commands.ChangeStatusUseCase
	RevertAcceptance commands.RevertAcceptanceUseCase
	Get              queries.GetApplicationUseCase
}

type Dependencies struct {
	Applications ports.ApplicationRepository
	Banks        ports.BankResolver
	Broadcaster  ports.Broadcaster
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

// NewModule wires the application-service use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	submit := commands.SubmitApplicationUseCase{
		Applications: deps.Applications,
		Audit:        deps.Audit,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Applications: deps.Applications,
		Banks:        deps.Banks,
		Broadcaster:  deps.Broadcaster,
		Audit:        deps.Audit,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	revert := commands.RevertAcceptanceUseCase{
		Applications: deps.Applications,
		Banks:        deps.Banks,
		Broadcaster:  deps.Broadcaster,
		Audit:        deps.Audit,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	get := queries.GetApplicationUseCase{
		Applications: deps.Applications,
		Logger:       deps.Logger,
	}

	handler := httpadapter.Handler{
		Submit:       submit,
		ChangeStatus: changeStatus,
		Get:          get,
		Logger:       deps.Logger,
	}

	return Module{
		Handler:          handler,
		ChangeStatus:     changeStatus,
		RevertAcceptance: revert,
		Get:              get,
	}
}
