package commands

import (
	"context"
	"log/slog"
	"strings"

	application "creditapp/contexts/lending/application-service/application"
	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"
	"creditapp/contexts/lending/application-service/ports"

	"github.com/shopspring/decimal"
)

const auditActionApplicationSubmitted = "APPLICATION_SUBMITTED"

type SubmitApplicationCommand struct {
	BorrowerID string
	LoanType   string
	LoanAmount decimal.Decimal
	TermMonths int
	Currency   string
}

type SubmitApplicationResult struct {
	Application entities.Application
}

type SubmitApplicationUseCase struct {
	Applications ports.ApplicationRepository
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

// Execute creates the application in SUBMITTED and records the audit action.
func (u SubmitApplicationUseCase) Execute(ctx context.Context, cmd SubmitApplicationCommand) (SubmitApplicationResult, error) {
	logger := application.ResolveLogger(u.Logger)

	borrowerID := strings.TrimSpace(cmd.BorrowerID)
	currency := strings.ToUpper(strings.TrimSpace(cmd.Currency))
	loanType := entities.LoanType(strings.ToUpper(strings.TrimSpace(cmd.LoanType)))
	if borrowerID == "" ||
		currency == "" ||
		!entities.IsSupportedLoanType(loanType) ||
		cmd.TermMonths <= 0 ||
		!cmd.LoanAmount.IsPositive() {
		return SubmitApplicationResult{}, domainerrors.ErrInvalidSubmission
	}

	now := u.Clock.Now().UTC()
	applicationID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return SubmitApplicationResult{}, err
	}

	item := entities.Application{
		ApplicationID: applicationID,
		BorrowerID:    borrowerID,
		LoanType:      loanType,
		LoanAmount:    cmd.LoanAmount,
		TermMonths:    cmd.TermMonths,
		Currency:      currency,
		Status:        entities.ApplicationStatusSubmitted,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.Applications.CreateApplication(ctx, item); err != nil {
		logger.Error("application submission failed",
			"event", "application_submit_failed",
			"module", "lending/application-service",
			"layer", "application",
			"borrower_id", borrowerID,
			"error", err.Error(),
		)
		return SubmitApplicationResult{}, err
	}

	if err := u.Audit.Record(ctx, "Application", applicationID, auditActionApplicationSubmitted); err != nil {
		logger.Warn("audit record failed",
			"event", "application_submit_audit_failed",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"error", err.Error(),
		)
	}

	logger.Info("application submitted",
		"event", "application_submitted",
		"module", "lending/application-service",
		"layer", "application",
		"application_id", applicationID,
		"borrower_id", borrowerID,
		"loan_type", string(loanType),
	)
	return SubmitApplicationResult{Application: item}, nil
}
