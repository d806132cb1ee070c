package workers

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

type fakeGateway struct {
	summaries map[string]ports.ApplicationSummary
	reverted  []string
	changed   []string
	revertErr error
}

func (g *fakeGateway) GetApplication(_ context.Context, applicationID string) (ports.ApplicationSummary, error) {
	summary, ok := g.summaries[applicationID]
	if !ok {
		return ports.ApplicationSummary{}, domainerrors.ErrApplicationNotFound
	}
	return summary, nil
}

func (g *fakeGateway) ChangeStatus(_ context.Context, applicationID string, newStatus string) error {
	g.changed = append(g.changed, applicationID+":"+newStatus)
	return nil
}

func (g *fakeGateway) RevertToSubmitted(_ context.Context, applicationID string) error {
	if g.revertErr != nil {
		return g.revertErr
	}
	g.reverted = append(g.reverted, applicationID)
	return nil
}

type recordingMetrics struct {
	expired        int
	warningsSent   int
	warningsFailed int
	failures       map[string]int
	durations      map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		failures:  map[string]int{},
		durations: map[string]int{},
	}
}

func (m *recordingMetrics) AddOffersExpired(count int)  { m.expired += count }
func (m *recordingMetrics) AddWarningsSent(count int)   { m.warningsSent += count }
func (m *recordingMetrics) AddWarningsFailed(count int) { m.warningsFailed += count }
func (m *recordingMetrics) IncSchedulerFailure(job string) {
	m.failures[job]++
}
func (m *recordingMetrics) ObserveSchedulerDuration(job string, _ time.Duration) {
	m.durations[job]++
}

func seedOffer(t *testing.T, store *memory.Store, offerID string, status entities.OfferStatus, expiresAt time.Time) entities.Offer {
	t.Helper()
	offer := entities.Offer{
		OfferID:            offerID,
		ApplicationID:      "app-1",
		BankID:             "bank-a",
		Status:             status,
		APR:                decimal.RequireFromString("5.5"),
		MonthlyPayment:     decimal.RequireFromString("450.00"),
		TotalCost:          decimal.NewFromInt(52000),
		OriginationFee:     decimal.NewFromInt(500),
		ProcessingTimeDays: 3,
		ValidityPeriodDays: 7,
		ExpiresAt:          expiresAt,
		CreatedAt:          expiresAt.Add(-7 * 24 * time.Hour),
		UpdatedAt:          expiresAt.Add(-7 * 24 * time.Hour),
	}
	if err := store.CreateOffer(context.Background(), offer); err != nil {
		t.Fatalf("seed offer %s: %v", offerID, err)
	}
	return offer
}

func TestExpirySweepTransitionsOverdueOffer(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-1", entities.OfferStatusSubmitted,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	metrics := newRecordingMetrics()
	expirer := OfferExpirer{
		Offers:       store,
		Applications: &fakeGateway{},
		Audit:        store,
		Metrics:      metrics,
		Clock:        store,
	}

	count, err := expirer.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired offer, got %d", count)
	}

	offer, err := store.GetOffer(context.Background(), "offer-1")
	if err != nil {
		t.Fatalf("reload offer: %v", err)
	}
	if offer.Status != entities.OfferStatusExpired {
		t.Fatalf("expected EXPIRED, got %s", offer.Status)
	}
	if metrics.expired != 1 {
		t.Fatalf("expected expired counter 1, got %d", metrics.expired)
	}
}

func TestExpirySweepIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-1", entities.OfferStatusSubmitted,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	expirer := OfferExpirer{
		Offers:       store,
		Applications: &fakeGateway{},
		Audit:        store,
		Clock:        store,
	}

	if _, err := expirer.RunOnce(context.Background()); err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	count, err := expirer.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected second sweep to expire nothing, got %d", count)
	}
}

func TestExpirySweepSkipsFutureAndTerminalOffers(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-due", entities.OfferStatusCalculated,
		time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC))
	seedOffer(t, store, "offer-future", entities.OfferStatusSubmitted,
		time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))
	seedOffer(t, store, "offer-rejected", entities.OfferStatusRejected,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	expirer := OfferExpirer{
		Offers:       store,
		Applications: &fakeGateway{},
		Audit:        store,
		Clock:        store,
	}

	count, err := expirer.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired offer, got %d", count)
	}

	future, _ := store.GetOffer(context.Background(), "offer-future")
	if future.Status != entities.OfferStatusSubmitted {
		t.Fatalf("expected future offer untouched, got %s", future.Status)
	}
	rejected, _ := store.GetOffer(context.Background(), "offer-rejected")
	if rejected.Status != entities.OfferStatusRejected {
		t.Fatalf("expected rejected offer untouched, got %s", rejected.Status)
	}
}

func TestExpiringAcceptedOfferRevertsApplication(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-1", entities.OfferStatusAccepted,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	gateway := &fakeGateway{}
	expirer := OfferExpirer{
		Offers:       store,
		Applications: gateway,
		Audit:        store,
		Clock:        store,
	}

	count, err := expirer.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired offer, got %d", count)
	}
	if len(gateway.reverted) != 1 || gateway.reverted[0] != "app-1" {
		t.Fatalf("expected application revert for app-1, got %v", gateway.reverted)
	}
}

func TestExpireOneRejectsOfferNotYetDue(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-1", entities.OfferStatusSubmitted,
		time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))

	expirer := OfferExpirer{
		Offers:       store,
		Applications: &fakeGateway{},
		Audit:        store,
		Clock:        store,
	}

	_, err := expirer.ExpireOne(context.Background(), "offer-1")
	if !errors.Is(err, domainerrors.ErrOfferNotExpirable) {
		t.Fatalf("expected ErrOfferNotExpirable, got %v", err)
	}
}

func TestExpireOneExpiresOverdueOffer(t *testing.T) {
	store := memory.NewStore()
	store.FixedNow = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	seedOffer(t, store, "offer-1", entities.OfferStatusCalculated,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

	expirer := OfferExpirer{
		Offers:       store,
		Applications: &fakeGateway{},
		Audit:        store,
		Clock:        store,
	}

	offer, err := expirer.ExpireOne(context.Background(), "offer-1")
	if err != nil {
		t.Fatalf("expected manual expiry to succeed, got %v", err)
	}
	if offer.Status != entities.OfferStatusExpired {
		t.Fatalf("expected EXPIRED, got %s", offer.Status)
	}
}
