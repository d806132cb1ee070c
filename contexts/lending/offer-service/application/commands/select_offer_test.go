package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"creditapp/contexts/lending/offer-service/adapters/memory"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"

	"github.com/shopspring/decimal"
)

type stubGateway struct {
	summary       ports.ApplicationSummary
	summaryErr    error
	statusChanges []string
}

func (g *stubGateway) GetApplication(context.Context, string) (ports.ApplicationSummary, error) {
	if g.summaryErr != nil {
		return ports.ApplicationSummary{}, g.summaryErr
	}
	return g.summary, nil
}

func (g *stubGateway) ChangeStatus(_ context.Context, applicationID string, newStatus string) error {
	g.statusChanges = append(g.statusChanges, applicationID+":"+newStatus)
	return nil
}

func (g *stubGateway) RevertToSubmitted(context.Context, string) error {
	return nil
}

type countingBroadcaster struct {
	updates int
}

func (b *countingBroadcaster) BroadcastApplicationUpdate(string, any) {
	b.updates++
}

func (b *countingBroadcaster) BroadcastStatusChange(string, string, string, string) {}

func ownedApplication() *stubGateway {
	return &stubGateway{summary: ports.ApplicationSummary{
		ApplicationID: "app-1",
		BorrowerID:    "borrower-1",
		Status:        "OFFERS_AVAILABLE",
	}}
}

func calculateCommand() CalculateOfferCommand {
	return CalculateOfferCommand{
		ApplicationID:      "app-1",
		BankID:             "bank-a",
		APR:                decimal.RequireFromString("5.5"),
		MonthlyPayment:     decimal.RequireFromString("450.00"),
		TotalCost:          decimal.NewFromInt(52000),
		OriginationFee:     decimal.NewFromInt(500),
		ProcessingTimeDays: 3,
		ValidityPeriodDays: 7,
	}
}

func TestCalculateOfferCreatesCalculatedWithExpiry(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now

	useCase := CalculateOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
		IDGenerator:  store,
	}

	result, err := useCase.Execute(context.Background(), calculateCommand())
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if result.Offer.Status != entities.OfferStatusCalculated {
		t.Fatalf("expected CALCULATED, got %s", result.Offer.Status)
	}
	wantExpiry := now.Add(7 * 24 * time.Hour)
	if !result.Offer.ExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %s, got %s", wantExpiry, result.Offer.ExpiresAt)
	}
	if result.Offer.Notified {
		t.Fatal("expected fresh offer to start unnotified")
	}
	if result.Superseded {
		t.Fatal("expected no supersede on first offer")
	}
}

func TestCalculateOfferSupersedesActiveOffer(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now

	useCase := CalculateOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
		IDGenerator:  store,
	}

	first, err := useCase.Execute(context.Background(), calculateCommand())
	if err != nil {
		t.Fatalf("first calculate failed: %v", err)
	}
	second, err := useCase.Execute(context.Background(), calculateCommand())
	if err != nil {
		t.Fatalf("second calculate failed: %v", err)
	}
	if !second.Superseded {
		t.Fatal("expected second calculation to supersede the first offer")
	}

	previous, err := store.GetOffer(context.Background(), first.Offer.OfferID)
	if err != nil {
		t.Fatalf("reload first offer: %v", err)
	}
	if previous.Status != entities.OfferStatusWithdrawn {
		t.Fatalf("expected first offer WITHDRAWN, got %s", previous.Status)
	}

	active, found, err := store.GetActiveOffer(context.Background(), "app-1", "bank-a")
	if err != nil || !found {
		t.Fatalf("expected one active offer, found=%v err=%v", found, err)
	}
	if active.OfferID != second.Offer.OfferID {
		t.Fatalf("expected %s active, got %s", second.Offer.OfferID, active.OfferID)
	}
}

func TestCalculateOfferRejectsInvalidPricing(t *testing.T) {
	store := memory.NewStore()
	useCase := CalculateOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
		IDGenerator:  store,
	}

	cmd := calculateCommand()
	cmd.APR = decimal.NewFromInt(-1)
	if _, err := useCase.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidOfferRequest) {
		t.Fatalf("expected ErrInvalidOfferRequest, got %v", err)
	}
}

func seedSelectableOffer(t *testing.T, store *memory.Store, offerID string, status entities.OfferStatus, expiresAt time.Time) {
	t.Helper()
	err := store.CreateOffer(context.Background(), entities.Offer{
		OfferID:            offerID,
		ApplicationID:      "app-1",
		BankID:             "bank-" + offerID,
		Status:             status,
		APR:                decimal.RequireFromString("5.5"),
		MonthlyPayment:     decimal.RequireFromString("450.00"),
		TotalCost:          decimal.NewFromInt(52000),
		ProcessingTimeDays: 3,
		ValidityPeriodDays: 7,
		ExpiresAt:          expiresAt,
	})
	if err != nil {
		t.Fatalf("seed offer %s: %v", offerID, err)
	}
}

func TestSelectOfferAcceptsAndUpdatesApplication(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now
	seedSelectableOffer(t, store, "offer-1", entities.OfferStatusSubmitted, now.Add(48*time.Hour))

	gateway := ownedApplication()
	broadcaster := &countingBroadcaster{}
	useCase := SelectOfferUseCase{
		Offers:       store,
		Applications: gateway,
		Broadcaster:  broadcaster,
		Audit:        store,
		Clock:        store,
	}

	offer, err := useCase.Execute(context.Background(), SelectOfferCommand{
		ApplicationID: "app-1",
		OfferID:       "offer-1",
		BorrowerID:    "borrower-1",
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if offer.Status != entities.OfferStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", offer.Status)
	}
	if len(gateway.statusChanges) != 1 || gateway.statusChanges[0] != "app-1:ACCEPTED" {
		t.Fatalf("expected application moved to ACCEPTED, got %v", gateway.statusChanges)
	}
	if broadcaster.updates != 1 {
		t.Fatalf("expected one broadcast to the offering bank, got %d", broadcaster.updates)
	}
}

func TestSelectOfferRejectsExpiredOffer(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now
	seedSelectableOffer(t, store, "offer-1", entities.OfferStatusSubmitted, now.Add(-time.Hour))

	useCase := SelectOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
	}

	_, err := useCase.Execute(context.Background(), SelectOfferCommand{
		ApplicationID: "app-1",
		OfferID:       "offer-1",
		BorrowerID:    "borrower-1",
	})
	if !errors.Is(err, domainerrors.ErrOfferExpired) {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
}

func TestSelectOfferRejectsNonOwner(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now
	seedSelectableOffer(t, store, "offer-1", entities.OfferStatusSubmitted, now.Add(48*time.Hour))

	useCase := SelectOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
	}

	_, err := useCase.Execute(context.Background(), SelectOfferCommand{
		ApplicationID: "app-1",
		OfferID:       "offer-1",
		BorrowerID:    "intruder",
	})
	if !errors.Is(err, domainerrors.ErrNotApplicationOwner) {
		t.Fatalf("expected ErrNotApplicationOwner, got %v", err)
	}
}

func TestSelectOfferRevertsPreviousAcceptedOffer(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now
	seedSelectableOffer(t, store, "offer-old", entities.OfferStatusAccepted, now.Add(48*time.Hour))
	seedSelectableOffer(t, store, "offer-new", entities.OfferStatusSubmitted, now.Add(48*time.Hour))

	gateway := &stubGateway{summary: ports.ApplicationSummary{
		ApplicationID: "app-1",
		BorrowerID:    "borrower-1",
		Status:        "ACCEPTED",
	}}
	useCase := SelectOfferUseCase{
		Offers:       store,
		Applications: gateway,
		Audit:        store,
		Clock:        store,
	}

	offer, err := useCase.Execute(context.Background(), SelectOfferCommand{
		ApplicationID: "app-1",
		OfferID:       "offer-new",
		BorrowerID:    "borrower-1",
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if offer.Status != entities.OfferStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", offer.Status)
	}

	previous, err := store.GetOffer(context.Background(), "offer-old")
	if err != nil {
		t.Fatalf("reload previous offer: %v", err)
	}
	if previous.Status != entities.OfferStatusSubmitted {
		t.Fatalf("expected previous offer reverted to SUBMITTED, got %s", previous.Status)
	}
	// application already ACCEPTED, no redundant status change
	if len(gateway.statusChanges) != 0 {
		t.Fatalf("expected no application status change, got %v", gateway.statusChanges)
	}
}

func TestSelectOfferRejectsTerminalOffer(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)
	store.FixedNow = now
	seedSelectableOffer(t, store, "offer-1", entities.OfferStatusWithdrawn, now.Add(48*time.Hour))

	useCase := SelectOfferUseCase{
		Offers:       store,
		Applications: ownedApplication(),
		Audit:        store,
		Clock:        store,
	}

	_, err := useCase.Execute(context.Background(), SelectOfferCommand{
		ApplicationID: "app-1",
		OfferID:       "offer-1",
		BorrowerID:    "borrower-1",
	})
	if !errors.Is(err, domainerrors.ErrOfferNotSelectable) {
		t.Fatalf("expected ErrOfferNotSelectable, got %v", err)
	}
}
