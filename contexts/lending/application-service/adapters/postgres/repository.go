package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

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

func (r *Repository) GetApplication(ctx context.Context, applicationID string) (entities.Application, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, domainerrors.ErrApplicationNotFound
		}
		return entities.Application{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateApplication(ctx context.Context, application entities.Application) error {
	row := applicationModelFromEntity(application)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariant
		}
		return err
	}
	return nil
}

// UpdateStatus compares-and-swaps on the version column; zero rows affected
// means either a missing row or a concurrent writer.
func (r *Repository) UpdateStatus(
	ctx context.Context,
	applicationID string,
	status entities.ApplicationStatus,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ? AND version = ?", applicationID, expectedVersion).
		Updates(map[string]any{
			"status":     string(status),
			"version":    expectedVersion + 1,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&applicationModel{}).
			Where("application_id = ?", applicationID).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrApplicationNotFound
		}
		return domainerrors.ErrVersionConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type applicationModel struct {
	ApplicationID string          `gorm:"column:application_id;primaryKey"`
	BorrowerID    string          `gorm:"column:borrower_id"`
	LoanType      string          `gorm:"column:loan_type"`
	LoanAmount    decimal.Decimal `gorm:"column:loan_amount;type:numeric"`
	TermMonths    int             `gorm:"column:term_months"`
	Currency      string          `gorm:"column:currency"`
	Status        string          `gorm:"column:status"`
	Version       int64           `gorm:"column:version"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (applicationModel) TableName() string {
	return "applications"
}

func (m applicationModel) toEntity() entities.Application {
	return entities.Application{
		ApplicationID: m.ApplicationID,
		BorrowerID:    m.BorrowerID,
		LoanType:      entities.LoanType(m.LoanType),
		LoanAmount:    m.LoanAmount,
		TermMonths:    m.TermMonths,
		Currency:      m.Currency,
		Status:        entities.ApplicationStatus(m.Status),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func applicationModelFromEntity(item entities.Application) applicationModel {
	return applicationModel{
		ApplicationID: item.ApplicationID,
		BorrowerID:    item.BorrowerID,
		LoanType:      string(item.LoanType),
		LoanAmount:    item.LoanAmount,
		TermMonths:    item.TermMonths,
		Currency:      item.Currency,
		Status:        string(item.Status),
		Version:       item.Version,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}
