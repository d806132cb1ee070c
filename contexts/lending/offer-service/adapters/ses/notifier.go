package sesadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"creditapp/contexts/lending/offer-service/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier delivers expiration warnings to bank officers over SES. One
// email per offer; the caller owns retries and failure accounting.
type Notifier struct {
	client    *ses.Client
	sender    string
	recipient string
	baseURL   string
	logger    *slog.Logger
}

func NewNotifier(ctx context.Context, region, sender, recipient, baseURL string, logger *slog.Logger) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		client:    ses.NewFromConfig(cfg),
		sender:    sender,
		recipient: recipient,
		baseURL:   baseURL,
		logger:    logger,
	}, nil
}

func (n *Notifier) NotifyExpiringOffer(ctx context.Context, offer entities.Offer) error {
	hoursRemaining := int(time.Until(offer.ExpiresAt).Hours())
	subject := fmt.Sprintf("Offer Expiring Soon - Application %s", offer.ApplicationID)
	body := fmt.Sprintf(
		"Offer Expiration Warning\n\n"+
			"Your loan offer is about to expire:\n"+
			"Application ID: %s\n"+
			"Bank ID: %s\n"+
			"Your APR: %s%%\n"+
			"Monthly Payment: $%s\n"+
			"Hours Remaining: %d hours\n\n"+
			"Review Application: %s/api/bank/applications/%s\n\n"+
			"If no action is taken, the offer will expire automatically.",
		offer.ApplicationID,
		offer.BankID,
		offer.APR.StringFixed(2),
		offer.MonthlyPayment.StringFixed(2),
		hoursRemaining,
		n.baseURL, offer.ApplicationID,
	)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{n.recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send expiry warning for offer %s: %w", offer.OfferID, err)
	}

	n.logger.Info("expiry warning email sent",
		"event", "expiry_warning_email_sent",
		"module", "lending/offer-service",
		"layer", "adapter",
		"offer_id", offer.OfferID,
		"application_id", offer.ApplicationID,
		"bank_id", offer.BankID,
		"hours_remaining", hoursRemaining,
	)
	return nil
}
