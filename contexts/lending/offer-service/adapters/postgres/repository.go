package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var terminalStatuses = []string{
	string(entities.OfferStatusAccepted),
	string(entities.OfferStatusRejected),
	string(entities.OfferStatusExpired),
	string(entities.OfferStatusWithdrawn),
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOffersByApplication(ctx context.Context, applicationID string) ([]entities.Offer, error) {
	var rows []offerModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("offer_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) GetActiveOffer(ctx context.Context, applicationID string, bankID string) (entities.Offer, bool, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND bank_id = ? AND status NOT IN ?", applicationID, bankID, terminalStatuses).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, false, nil
		}
		return entities.Offer{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetAcceptedOffer(ctx context.Context, applicationID string) (entities.Offer, bool, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND status = ?", applicationID, string(entities.OfferStatusAccepted)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, false, nil
		}
		return entities.Offer{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateOffer(ctx context.Context, offer entities.Offer) error {
	row := offerModelFromEntity(offer)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariant
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, offerID string, status entities.OfferStatus, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ?", offerID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOfferNotFound
	}
	return nil
}

func (r *Repository) ListExpiryCandidates(ctx context.Context, now time.Time) ([]entities.Offer, error) {
	var rows []offerModel
	err := r.db.WithContext(ctx).
		Where("expires_at <= ? AND status NOT IN ?", now.UTC(), terminalStatuses).
		Order("offer_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) ListExpiringSoon(ctx context.Context, from time.Time, to time.Time) ([]entities.Offer, error) {
	var rows []offerModel
	err := r.db.WithContext(ctx).
		Where("expires_at > ? AND expires_at <= ? AND notified = false AND status NOT IN ?",
			from.UTC(), to.UTC(), terminalStatuses).
		Order("expires_at ASC, offer_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) MarkNotified(ctx context.Context, offerID string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ?", offerID).
		Updates(map[string]any{
			"notified":   true,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOfferNotFound
	}
	return nil
}

// BanksForApplication lists the distinct banks holding offers for an
// application. Implements the application service's bank resolver port.
func (r *Repository) BanksForApplication(ctx context.Context, applicationID string) ([]string, error) {
	var banks []string
	err := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Distinct("bank_id").
		Where("application_id = ?", applicationID).
		Order("bank_id ASC").
		Pluck("bank_id", &banks).
		Error
	if err != nil {
		return nil, err
	}
	return banks, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type offerModel struct {
	OfferID            string          `gorm:"column:offer_id;primaryKey"`
	ApplicationID      string          `gorm:"column:application_id"`
	BankID             string          `gorm:"column:bank_id"`
	Status             string          `gorm:"column:status"`
	APR                decimal.Decimal `gorm:"column:apr;type:numeric"`
	MonthlyPayment     decimal.Decimal `gorm:"column:monthly_payment;type:numeric"`
	TotalCost          decimal.Decimal `gorm:"column:total_cost;type:numeric"`
	OriginationFee     decimal.Decimal `gorm:"column:origination_fee;type:numeric"`
	ProcessingTimeDays int             `gorm:"column:processing_time_days"`
	ValidityPeriodDays int             `gorm:"column:validity_period_days"`
	ExpiresAt          time.Time       `gorm:"column:expires_at"`
	Notified           bool            `gorm:"column:notified"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (offerModel) TableName() string {
	return "offers"
}

func (m offerModel) toEntity() entities.Offer {
	return entities.Offer{
		OfferID:            m.OfferID,
		ApplicationID:      m.ApplicationID,
		BankID:             m.BankID,
		Status:             entities.OfferStatus(m.Status),
		APR:                m.APR,
		MonthlyPayment:     m.MonthlyPayment,
		TotalCost:          m.TotalCost,
		OriginationFee:     m.OriginationFee,
		ProcessingTimeDays: m.ProcessingTimeDays,
		ValidityPeriodDays: m.ValidityPeriodDays,
		ExpiresAt:          m.ExpiresAt,
		Notified:           m.Notified,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func offerModelFromEntity(offer entities.Offer) offerModel {
	return offerModel{
		OfferID:            offer.OfferID,
		ApplicationID:      offer.ApplicationID,
		BankID:             offer.BankID,
		Status:             string(offer.Status),
		APR:                offer.APR,
		MonthlyPayment:     offer.MonthlyPayment,
		TotalCost:          offer.TotalCost,
		OriginationFee:     offer.OriginationFee,
		ProcessingTimeDays: offer.ProcessingTimeDays,
		ValidityPeriodDays: offer.ValidityPeriodDays,
		ExpiresAt:          offer.ExpiresAt.UTC(),
		Notified:           offer.Notified,
		CreatedAt:          offer.CreatedAt.UTC(),
		UpdatedAt:          offer.UpdatedAt.UTC(),
	}
}

func toEntities(rows []offerModel) []entities.Offer {
	result := make([]entities.Offer, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result
}
