package offerservice

import (
	"log/slog"
	"time"

	httpadapter "creditapp/contexts/lending/offer-service/adapters/http"
	"creditapp/contexts/lending/offer-service/application/commands"
	"creditapp/contexts/lending/offer-service/application/queries"
	"creditapp/contexts/lending/offer-service/application/workers"
	"creditapp/contexts/lending/offer-service/ports"
)

// Module is the composition surface for the offer lifecycle service.
// Runtime wiring consumes Handler and the two sweep workers.
type Module struct {
	Handler      httpadapter.Handler
	Expirer      workers.OfferExpirer
	WarningSweep workers.ExpiryWarningNotifier
	Calculate    commands.CalculateOfferUseCase
	Select       commands.SelectOfferUseCase
	Insights     queries.OfferInsightsUseCase
}

type Dependencies struct {
	Offers          ports.OfferRepository
	Applications    ports.ApplicationGateway
	Notifier        ports.ExpiryNotifier
	Broadcaster     ports.Broadcaster
	Audit           ports.AuditRecorder
	Metrics         ports.Metrics
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	DispatchTimeout time.Duration
	Logger          *slog.Logger
}

// NewModule wires the offer-service use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	calculate := commands.CalculateOfferUseCase{
		Offers:       deps.Offers,
		Applications: deps.Applications,
		Audit:        deps.Audit,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	selectOffer := commands.SelectOfferUseCase{
		Offers:       deps.Offers,
		Applications: deps.Applications,
		Broadcaster:  deps.Broadcaster,
		Audit:        deps.Audit,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	insights := queries.OfferInsightsUseCase{
		Offers:       deps.Offers,
		Applications: deps.Applications,
		Logger:       deps.Logger,
	}
	list := queries.ListOffersUseCase{
		Offers:       deps.Offers,
		Applications: deps.Applications,
		Logger:       deps.Logger,
	}
	expirer := workers.OfferExpirer{
		Offers:       deps.Offers,
		Applications: deps.Applications,
		Audit:        deps.Audit,
		Metrics:      deps.Metrics,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	warning := workers.ExpiryWarningNotifier{
		Offers:          deps.Offers,
		Notifier:        deps.Notifier,
		Metrics:         deps.Metrics,
		Clock:           deps.Clock,
		Logger:          deps.Logger,
		DispatchTimeout: deps.DispatchTimeout,
	}

	handler := httpadapter.Handler{
		Calculate: calculate,
		Select:    selectOffer,
		Insights:  insights,
		List:      list,
		Expirer:   expirer,
		Logger:    deps.Logger,
	}

	return Module{
		Handler:      handler,
		Expirer:      expirer,
		WarningSweep: warning,
		Calculate:    calculate,
		Select:       selectOffer,
		Insights:     insights,
	}
}
